package annotation

import (
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

// Recognized type-level keys.
const (
	KeyIndexName    = "indexName"
	KeyMaxTotalHits = "maxTotalHits"
)

// Options controls how malformed blocks are treated.
type Options struct {
	// Strict turns a malformed recognized block into an error instead of
	// silently skipping it.
	Strict bool
}

// StringValue is a string literal together with where it was written.
type StringValue struct {
	Value string
	Pos   token.Position
}

// Expr is Go expression text forwarded verbatim into generated code.
type Expr struct {
	Source string
	Pos    token.Position
}

// StructAnnotations holds the type-level settings. Nil means not provided.
type StructAnnotations struct {
	IndexName    *StringValue
	MaxTotalHits *Expr
}

// ParseStruct folds the type-level blocks into one StructAnnotations.
// Blocks are applied in order and a later key overwrites an earlier one. A
// block that fails to parse contributes nothing.
func ParseStruct(blocks []Block, opts Options) (StructAnnotations, error) {
	var out StructAnnotations
	for _, b := range blocks {
		next, err := out.merge(b)
		if err != nil {
			if opts.Strict {
				return StructAnnotations{}, err
			}
			continue
		}
		out = next
	}
	return out, nil
}

func (s StructAnnotations) merge(b Block) (StructAnnotations, error) {
	pairs, err := scanPairs(b)
	if err != nil {
		return s, err
	}

	next := s
	for _, p := range pairs {
		switch p.key {
		case KeyIndexName:
			value, err := strconv.Unquote(p.value)
			if err != nil {
				return s, malformed(b, "%s must be a string literal, got %s", KeyIndexName, p.value)
			}
			next.IndexName = &StringValue{Value: value, Pos: b.at(p.keyOffset)}
		case KeyMaxTotalHits:
			if _, err := parser.ParseExpr(p.value); err != nil {
				return s, malformed(b, "%s is not a valid expression: %v", KeyMaxTotalHits, err)
			}
			next.MaxTotalHits = &Expr{Source: p.value, Pos: b.at(p.valueOffset)}
		default:
			return s, malformed(b, "unknown key %q", p.key)
		}
	}
	return next, nil
}

type pair struct {
	key         string
	keyOffset   int
	value       string
	valueOffset int
}

type lexeme struct {
	offset int
	tok    token.Token
	lit    string
}

func (l lexeme) end() int {
	if l.lit != "" {
		return l.offset + len(l.lit)
	}
	return l.offset + len(l.tok.String())
}

// scanPairs splits a block body into key=value pairs. A value runs until a
// top-level comma or the next "key =".
func scanPairs(b Block) ([]pair, error) {
	src := []byte(b.Text)
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var (
		s       scanner.Scanner
		scanErr string
	)
	s.Init(file, src, func(_ token.Position, msg string) {
		if scanErr == "" {
			scanErr = msg
		}
	}, 0)

	var toks []lexeme
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// automatic semicolon at end of input
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, lexeme{offset: file.Offset(pos), tok: tok, lit: lit})
	}
	if scanErr != "" {
		return nil, malformed(b, "%s", scanErr)
	}

	var pairs []pair
	for i := 0; i < len(toks); {
		if toks[i].tok == token.COMMA {
			i++
			continue
		}
		if toks[i].tok != token.IDENT || i+1 >= len(toks) || toks[i+1].tok != token.ASSIGN {
			return nil, malformed(b, "expected key=value at column %d", toks[i].offset+1)
		}

		p := pair{key: toks[i].lit, keyOffset: toks[i].offset}
		i += 2
		start := i
		depth := 0
	value:
		for ; i < len(toks); i++ {
			switch t := toks[i]; t.tok {
			case token.LPAREN, token.LBRACK, token.LBRACE:
				depth++
			case token.RPAREN, token.RBRACK, token.RBRACE:
				depth--
			case token.COMMA:
				if depth == 0 {
					break value
				}
			case token.IDENT:
				if depth == 0 && i+1 < len(toks) && toks[i+1].tok == token.ASSIGN {
					break value
				}
			}
		}
		if i == start {
			return nil, malformed(b, "missing value for %s", p.key)
		}

		p.valueOffset = toks[start].offset
		p.value = strings.TrimSpace(string(src[p.valueOffset:toks[i-1].end()]))
		pairs = append(pairs, p)
	}
	return pairs, nil
}
