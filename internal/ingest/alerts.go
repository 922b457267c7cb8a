package ingest

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

type alertDocument struct {
	Description optionalString `yaml:"description"`
	Name        optionalString `yaml:"name"`
	Type        optionalString `yaml:"type"`
}

// NormalizeAlerts reads one AlertRecord per alert file, in input order. Only
// the first YAML document of each file is decoded; later documents are not
// read at all.
func (p *Pipeline) NormalizeAlerts(files []interfaces.FileMetadata) ([]interfaces.AlertRecord, error) {
	alerts := make([]interfaces.AlertRecord, 0, len(files))
	for _, file := range files {
		var doc alertDocument
		if err := parseFirstDocument(file.Content, &doc); err != nil {
			if p.policy.OnFailure(ParserAlertYAML) == ActionPropagate {
				return nil, parseError(ParserAlertYAML, file.FilePath, err)
			}
			logging.WithFileContext(p.logger, file.FilePath, string(file.Type), string(BucketAlert)).
				Warn("quickstart.alert.parse_failed", "error", err)
			doc = alertDocument{}
		}

		alerts = append(alerts, interfaces.AlertRecord{
			Details: doc.Description.or(FieldAlertDetails),
			Name:    doc.Name.or(FieldAlertName),
			Type:    doc.Type.or(FieldAlertType),
		})
	}
	return alerts, nil
}

// parseFirstDocument decodes the first document of a YAML stream. An empty
// stream leaves out untouched.
func parseFirstDocument(content string, out any) error {
	var node yaml.Node
	if err := yaml.NewDecoder(strings.NewReader(content)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return decodeMapping(&node, out)
}
