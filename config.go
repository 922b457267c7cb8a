package quickstart

import (
	"github.com/goliatone/go-quickstart/internal/ingest"
	"github.com/goliatone/go-quickstart/internal/runtimeconfig"
)

var (
	ErrRepositoryURLInvalid   = runtimeconfig.ErrRepositoryURLInvalid
	ErrAssetBaseURLInvalid    = runtimeconfig.ErrAssetBaseURLInvalid
	ErrParsePolicyInvalid     = runtimeconfig.ErrParsePolicyInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
)

type (
	Config        = runtimeconfig.Config
	LoggingConfig = runtimeconfig.LoggingConfig
	StorageConfig = runtimeconfig.StorageConfig
	SourceConfig  = runtimeconfig.SourceConfig
	ParsePolicy   = ingest.ParsePolicy
	Parser        = ingest.Parser
	FailureAction = ingest.FailureAction
)

const (
	ParserConfigYAML    = ingest.ParserConfigYAML
	ParserDashboardJSON = ingest.ParserDashboardJSON
	ParserAlertYAML     = ingest.ParserAlertYAML
	ActionPropagate     = ingest.ActionPropagate
	ActionRecover       = ingest.ActionRecover
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
