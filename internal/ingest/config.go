package ingest

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

const configPathMarker = "/config"

// PackConfig carries the pack-level fields read from the root config file.
type PackConfig struct {
	ID            string
	Name          string
	Title         string
	Summary       string
	Description   string
	Level         string
	Authors       []string
	Keywords      []string
	PackURL       string
	LogoURL       string
	Documentation []interfaces.Documentation
	InstallPlans  []interfaces.InstallPlan
}

// configDocument is the optional-field schema of a root config file.
type configDocument struct {
	ID            optionalString    `yaml:"id"`
	Slug          optionalString    `yaml:"slug"`
	Name          optionalString    `yaml:"name"`
	Title         optionalString    `yaml:"title"`
	Summary       optionalString    `yaml:"summary"`
	Description   optionalString    `yaml:"description"`
	Level         optionalString    `yaml:"level"`
	Icon          optionalString    `yaml:"icon"`
	Authors       optionalList      `yaml:"authors"`
	Keywords      optionalList      `yaml:"keywords"`
	Documentation documentationList `yaml:"documentation"`
	InstallPlans  optionalList      `yaml:"installPlans"`
}

// IsConfigFile reports whether file is a root config candidate: a YAML file
// whose name contains "config".
func IsConfigFile(file interfaces.FileMetadata) bool {
	return file.Type == interfaces.FileTypeYAML && strings.Contains(file.FileName, "config")
}

// FindConfigFile returns the single root config file. Zero candidates yield
// ErrConfigNotFound and more than one yields ErrConfigAmbiguous; no candidate
// is picked arbitrarily.
func FindConfigFile(root []interfaces.FileMetadata) (interfaces.FileMetadata, error) {
	var matches []interfaces.FileMetadata
	for _, file := range root {
		if IsConfigFile(file) {
			matches = append(matches, file)
		}
	}

	switch len(matches) {
	case 0:
		return interfaces.FileMetadata{}, configNotFoundError()
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, 0, len(matches))
		for _, match := range matches {
			paths = append(paths, match.FilePath)
		}
		return interfaces.FileMetadata{}, configAmbiguousError(paths)
	}
}

// PackURL joins baseURL with the quickstart directory of configPath, which is
// the path truncated at its first "/config". Paths without that marker use
// their parent directory.
func PackURL(baseURL, configPath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	dir := configPath
	if idx := strings.Index(configPath, configPathMarker); idx >= 0 {
		dir = configPath[:idx]
	} else if dir = path.Dir(configPath); dir == "." {
		dir = ""
	}

	dir = strings.Trim(dir, "/")
	if dir == "" {
		return base
	}
	return base + "/" + dir
}

// FindLogo returns the content of the first image in root, by input order,
// whose file name equals icon.
func FindLogo(root []interfaces.FileMetadata, icon string) (string, bool) {
	if icon == "" {
		return "", false
	}
	for _, file := range root {
		if file.Type == interfaces.FileTypeImage && file.FileName == icon {
			return file.Content, true
		}
	}
	return "", false
}

// ExtractConfig locates and parses the root config file and produces the
// normalized pack-level fields. When the YAML cannot be parsed the policy
// decides between a categorized error and an all-placeholder config.
func (p *Pipeline) ExtractConfig(root []interfaces.FileMetadata) (PackConfig, error) {
	file, err := FindConfigFile(root)
	if err != nil {
		return PackConfig{}, err
	}

	var doc configDocument
	if err := parseConfigDocument(file.Content, &doc); err != nil {
		if p.policy.OnFailure(ParserConfigYAML) == ActionPropagate {
			return PackConfig{}, parseError(ParserConfigYAML, file.FilePath, err)
		}
		p.logger.Warn("quickstart.config.parse_failed",
			"file_path", file.FilePath,
			"error", err,
		)
		doc = configDocument{}
	}

	cfg := PackConfig{
		ID:            doc.ID.or(FieldID),
		Name:          doc.Slug.or(FieldName),
		Title:         doc.Title.or(FieldTitle),
		Summary:       doc.Summary.or(FieldSummary),
		Description:   doc.Description.or(FieldDescription),
		Level:         normalizeLevel(doc.Level),
		Authors:       doc.Authors.or(FieldAuthor),
		Keywords:      doc.Keywords.or(FieldKeyword),
		PackURL:       PackURL(p.repositoryURL, file.FilePath),
		Documentation: NormalizeDocumentation(doc.Documentation),
		InstallPlans:  NormalizeInstallPlans(doc.InstallPlans),
	}
	if _, ok := doc.Slug.trimmed(); !ok {
		cfg.Name = doc.Name.or(FieldName)
	}

	if icon, ok := doc.Icon.trimmed(); ok {
		if logo, found := FindLogo(root, icon); found {
			cfg.LogoURL = logo
		} else {
			p.logger.Debug("quickstart.config.logo_missing", "icon", icon)
		}
	}

	return cfg, nil
}

func parseConfigDocument(content string, doc *configDocument) error {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(content), &node); err != nil {
		return err
	}
	return decodeMapping(&node, doc)
}
