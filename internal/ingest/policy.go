package ingest

// Parser names one of the content parsers used during ingestion.
type Parser string

const (
	ParserConfigYAML    Parser = "config_yaml"
	ParserDashboardJSON Parser = "dashboard_json"
	ParserAlertYAML     Parser = "alert_yaml"
)

// FailureAction decides what happens when a parser rejects a file.
type FailureAction string

const (
	// ActionPropagate aborts the ingestion with a categorized error.
	ActionPropagate FailureAction = "propagate"
	// ActionRecover logs the failure and continues with an empty document,
	// so every field resolves to its placeholder.
	ActionRecover FailureAction = "recover"
)

// Parsers lists every parser covered by a ParsePolicy.
var Parsers = []Parser{ParserConfigYAML, ParserDashboardJSON, ParserAlertYAML}

// ParsePolicy maps each parser to its failure action. Parsers missing from
// the map use DefaultParsePolicy.
type ParsePolicy map[Parser]FailureAction

// DefaultParsePolicy recovers from broken dashboard JSON and propagates YAML
// failures.
func DefaultParsePolicy() ParsePolicy {
	return ParsePolicy{
		ParserConfigYAML:    ActionPropagate,
		ParserDashboardJSON: ActionRecover,
		ParserAlertYAML:     ActionPropagate,
	}
}

// RecoverAllPolicy never fails an ingestion because of a single bad file.
func RecoverAllPolicy() ParsePolicy {
	policy := ParsePolicy{}
	for _, parser := range Parsers {
		policy[parser] = ActionRecover
	}
	return policy
}

// OnFailure returns the action configured for parser.
func (p ParsePolicy) OnFailure(parser Parser) FailureAction {
	if action, ok := p[parser]; ok && action.Valid() {
		return action
	}
	return DefaultParsePolicy()[parser]
}

// Valid reports whether a is a known action.
func (a FailureAction) Valid() bool {
	return a == ActionPropagate || a == ActionRecover
}

// Valid reports whether p is a known parser.
func (p Parser) Valid() bool {
	for _, known := range Parsers {
		if p == known {
			return true
		}
	}
	return false
}
