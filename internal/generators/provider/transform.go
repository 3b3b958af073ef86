package provider

import (
	"github.com/simonhull/heron/internal/annotation"
	"github.com/simonhull/heron/internal/schema"
)

type callKind int

const (
	listCall callKind = iota
	stringCall
	paginationCall
)

// settingsCall is one builder call in the GenerateSettings chain.
type settingsCall struct {
	kind   callKind
	method string
	list   []string
	value  string
}

// listSettings are always emitted, in this order, so that applying the
// settings resets attributes no longer annotated.
var listSettings = []struct {
	role   annotation.Role
	method string
}{
	{annotation.RoleDisplayed, "WithDisplayedAttributes"},
	{annotation.RoleSortable, "WithSortableAttributes"},
	{annotation.RoleFilterable, "WithFilterableAttributes"},
	{annotation.RoleSearchable, "WithSearchableAttributes"},
}

// providerData is everything the emitter needs for one type.
type providerData struct {
	TypeName   string
	ConstName  string
	IndexName  string
	PrimaryKey string
	Calls      []settingsCall
}

func prepareProviderData(d *schema.Descriptor) providerData {
	data := providerData{
		TypeName:   d.TypeName,
		ConstName:  d.TypeName + "IndexName",
		IndexName:  d.IndexName,
		PrimaryKey: d.PrimaryKey,
	}

	for _, s := range listSettings {
		data.Calls = append(data.Calls, settingsCall{
			kind:   listCall,
			method: s.method,
			list:   d.Attributes(s.role),
		})
	}
	if d.HasDistinct() {
		data.Calls = append(data.Calls, settingsCall{
			kind:   stringCall,
			method: "WithDistinctAttribute",
			value:  d.Distinct,
		})
	}
	if d.Pagination != nil {
		data.Calls = append(data.Calls, settingsCall{
			kind:   paginationCall,
			method: "WithPagination",
			value:  d.Pagination.MaxTotalHits,
		})
	}
	return data
}
