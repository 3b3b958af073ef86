package annotation

import "go/token"

// BlockKind tells where a block was written.
type BlockKind int

const (
	// BlockDirective is a //<tag>:index or //<tag>:field comment.
	BlockDirective BlockKind = iota
	// BlockTag is a <tag>:"..." struct tag entry.
	BlockTag
)

func (k BlockKind) String() string {
	if k == BlockTag {
		return "struct tag"
	}
	return "directive"
}

// Block is the body of one recognized annotation, without its prefix.
type Block struct {
	Kind BlockKind
	Text string
	Pos  token.Position
}

// at returns the position of the byte at offset within a single-line block.
func (b Block) at(offset int) token.Position {
	pos := b.Pos
	if b.Kind == BlockTag || !pos.IsValid() {
		return pos
	}
	pos.Offset += offset
	pos.Column += offset
	return pos
}

// Type kinds reported by the source loader.
const (
	KindStruct    = "struct"
	KindInterface = "interface"
	KindAlias     = "alias"
)

// TypeDecl is an annotated type declaration as seen by the pipeline.
type TypeDecl struct {
	Name       string
	Pos        token.Position
	Kind       string // KindStruct, KindInterface, KindAlias, "map", "func", ...
	TypeParams bool
	Blocks     []Block
	Fields     []FieldDecl
	Methods    map[string]token.Position // methods declared on the type or its pointer
}

func (d TypeDecl) IsStruct() bool {
	return d.Kind == KindStruct
}

// FieldDecl is one named (or embedded) struct field.
type FieldDecl struct {
	// Name is the document attribute name: the json tag name when present,
	// otherwise the Go identifier.
	Name     string
	Ident    string
	Pos      token.Position
	Embedded bool
	Blocks   []Block
}
