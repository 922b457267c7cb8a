package ingest

import (
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

type documentationEntry struct {
	Name        optionalString `yaml:"name"`
	URL         optionalString `yaml:"url"`
	Description optionalString `yaml:"description"`
}

// documentationList keeps only mapping entries; anything else in the
// sequence is dropped.
type documentationList []documentationEntry

func (l *documentationList) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make(documentationList, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			continue
		}
		var entry documentationEntry
		if err := item.Decode(&entry); err != nil {
			return err
		}
		out = append(out, entry)
	}
	*l = out
	return nil
}

// NormalizeDocumentation trims each description and passes name and url
// through unchanged. The result is never nil.
func NormalizeDocumentation(entries documentationList) []interfaces.Documentation {
	docs := make([]interfaces.Documentation, 0, len(entries))
	for _, entry := range entries {
		description, _ := entry.Description.trimmed()
		docs = append(docs, interfaces.Documentation{
			Name:        entry.Name.raw(),
			URL:         entry.URL.raw(),
			Description: description,
		})
	}
	return docs
}

// NormalizeInstallPlans maps install plan identifiers to InstallPlan values.
// Name stays empty: there is no install plan catalog to resolve it against.
func NormalizeInstallPlans(ids []string) []interfaces.InstallPlan {
	plans := make([]interfaces.InstallPlan, 0, len(ids))
	for _, id := range ids {
		plans = append(plans, interfaces.InstallPlan{ID: id})
	}
	return plans
}
