package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

const (
	rootModule     = "quickstart"
	ingestModule   = "quickstart.ingest"
	sourceModule   = "quickstart.source"
	catalogModule  = "quickstart.catalog"
	commandsModule = "quickstart.commands"
	httpModule     = "quickstart.http"
)

const (
	fieldFilePath = "file_path"
	fieldFileType = "file_type"
	fieldBucket   = "bucket"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// hands back nil, yields a no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// IngestLogger returns the logger used by the normalization pipeline.
func IngestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ingestModule)
}

// SourceLogger returns the logger used by filesystem loaders.
func SourceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sourceModule)
}

// CatalogLogger returns the logger used by catalog stores.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// HTTPLogger returns the logger used by the catalog API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger namespace for command handlers. A
// non-empty name is appended as a child module.
func CommandsLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithFileContext attaches the path, type and bucket of a raw file. Blank
// values are skipped.
func WithFileContext(logger interfaces.Logger, path, fileType, bucket string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldFilePath] = trimmed
	}
	if trimmed := strings.TrimSpace(fileType); trimmed != "" {
		fields[fieldFileType] = trimmed
	}
	if trimmed := strings.TrimSpace(bucket); trimmed != "" {
		fields[fieldBucket] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
