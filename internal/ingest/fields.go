package ingest

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field identifies an optional output field that has a placeholder.
type Field string

const (
	FieldID                   Field = "id"
	FieldName                 Field = "name"
	FieldTitle                Field = "title"
	FieldSummary              Field = "summary"
	FieldDescription          Field = "description"
	FieldLevel                Field = "level"
	FieldAuthor               Field = "author"
	FieldKeyword              Field = "keyword"
	FieldDashboardName        Field = "dashboard.name"
	FieldDashboardDescription Field = "dashboard.description"
	FieldAlertDetails         Field = "alert.details"
	FieldAlertName            Field = "alert.name"
	FieldAlertType            Field = "alert.type"
)

// placeholders is the only place default values are defined.
var placeholders = map[Field]string{
	FieldID:                   "",
	FieldName:                 "",
	FieldTitle:                "Placeholder title",
	FieldSummary:              "Placeholder summary",
	FieldDescription:          "Placeholder description",
	FieldLevel:                "COMMUNITY",
	FieldAuthor:               "Placeholder author",
	FieldKeyword:              "Placeholder keyword",
	FieldDashboardName:        "Placeholder name",
	FieldDashboardDescription: "Placeholder description",
	FieldAlertDetails:         "Placeholder description",
	FieldAlertName:            "Placeholder name",
	FieldAlertType:            "Placeholder type",
}

// Placeholder returns the default substituted for an absent field.
func Placeholder(field Field) string {
	return placeholders[field]
}

// optionalString holds a scalar that may be missing from the source document.
// Non-scalar values are treated as missing so a wrongly typed field never
// fails the decode.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return nil
	}
	o.value, o.set = node.Value, true
	return nil
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		o.value, o.set = t, true
	case float64, bool:
		o.value, o.set = string(bytes.TrimSpace(data)), true
	}
	return nil
}

// raw returns the value exactly as written.
func (o optionalString) raw() string {
	return o.value
}

// trimmed returns the trimmed value and whether it is non-blank.
func (o optionalString) trimmed() (string, bool) {
	value := strings.TrimSpace(o.value)
	return value, o.set && value != ""
}

// or returns the trimmed value, or the placeholder for field when blank.
func (o optionalString) or(field Field) string {
	if value, ok := o.trimmed(); ok {
		return value
	}
	return Placeholder(field)
}

// optionalList is a list of trimmed, non-blank scalars. A single scalar is
// accepted as a one-element list.
type optionalList []string

func (l *optionalList) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	var items []*yaml.Node
	switch node.Kind {
	case yaml.SequenceNode:
		items = node.Content
	case yaml.ScalarNode:
		items = []*yaml.Node{node}
	default:
		return nil
	}

	out := make(optionalList, 0, len(items))
	for _, item := range items {
		var entry optionalString
		if err := entry.UnmarshalYAML(item); err != nil {
			return err
		}
		if value, ok := entry.trimmed(); ok {
			out = append(out, value)
		}
	}
	*l = out
	return nil
}

// or returns a copy of the list, or a one-element placeholder list when empty.
func (l optionalList) or(field Field) []string {
	if len(l) == 0 {
		return []string{Placeholder(field)}
	}
	return append([]string(nil), l...)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// decodeMapping decodes the mapping at the root of node into out. Documents
// whose root is not a mapping (scalars, sequences, empty input) leave out
// untouched.
func decodeMapping(node *yaml.Node, out any) error {
	root := node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	return root.Decode(out)
}

// normalizeLevel collapses whitespace runs to underscores and upper-cases
// the result, e.g. "Verified Partner" becomes "VERIFIED_PARTNER".
func normalizeLevel(level optionalString) string {
	value, ok := level.trimmed()
	if !ok {
		return Placeholder(FieldLevel)
	}
	return strings.ToUpper(strings.Join(strings.Fields(value), "_"))
}
