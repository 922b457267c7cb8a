package ingest

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrConfigNotFound reports a root bucket without a YAML file whose name contains "config".
	ErrConfigNotFound = errors.New("quickstart: root config file not found")
	// ErrConfigAmbiguous reports more than one candidate root config file.
	ErrConfigAmbiguous = errors.New("quickstart: multiple root config files")
	// ErrConfigParse reports an unparsable root config file.
	ErrConfigParse = errors.New("quickstart: parse root config")
	// ErrDashboardParse reports an unparsable dashboard definition.
	ErrDashboardParse = errors.New("quickstart: parse dashboard")
	// ErrAlertParse reports an unparsable alert policy file.
	ErrAlertParse = errors.New("quickstart: parse alert")
)

const (
	codeConfigNotFound  = "QUICKSTART_CONFIG_NOT_FOUND"
	codeConfigAmbiguous = "QUICKSTART_CONFIG_AMBIGUOUS"
	codeConfigParse     = "QUICKSTART_CONFIG_PARSE_FAILED"
	codeDashboardParse  = "QUICKSTART_DASHBOARD_PARSE_FAILED"
	codeAlertParse      = "QUICKSTART_ALERT_PARSE_FAILED"
)

var parseErrors = map[Parser]struct {
	sentinel error
	code     string
}{
	ParserConfigYAML:    {ErrConfigParse, codeConfigParse},
	ParserDashboardJSON: {ErrDashboardParse, codeDashboardParse},
	ParserAlertYAML:     {ErrAlertParse, codeAlertParse},
}

func configNotFoundError() error {
	return goerrors.Wrap(ErrConfigNotFound, goerrors.CategoryValidation, "quickstart is missing a root config file").
		WithTextCode(codeConfigNotFound)
}

func configAmbiguousError(paths []string) error {
	source := fmt.Errorf("%w: %v", ErrConfigAmbiguous, paths)
	return goerrors.Wrap(source, goerrors.CategoryValidation, "quickstart has more than one root config file").
		WithTextCode(codeConfigAmbiguous)
}

func parseError(parser Parser, path string, err error) error {
	kind := parseErrors[parser]
	source := fmt.Errorf("%w %s: %v", kind.sentinel, path, err)
	return goerrors.Wrap(source, goerrors.CategoryValidation, kind.sentinel.Error()).
		WithTextCode(kind.code)
}
