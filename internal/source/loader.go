package source

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

var configNames = []string{"config.yml", "config.yaml"}

var extensionTypes = map[string]interfaces.FileType{
	".yml":  interfaces.FileTypeYAML,
	".yaml": interfaces.FileTypeYAML,
	".json": interfaces.FileTypeJSON,
	".png":  interfaces.FileTypeImage,
	".jpg":  interfaces.FileTypeImage,
	".jpeg": interfaces.FileTypeImage,
	".gif":  interfaces.FileTypeImage,
	".svg":  interfaces.FileTypeImage,
	".webp": interfaces.FileTypeImage,
}

// LoaderConfig configures how quickstart directories are turned into file lists.
type LoaderConfig struct {
	// PathPrefix is joined in front of every file path so the result matches
	// repository-relative paths, e.g. "quickstarts".
	PathPrefix string
	// AssetBaseURL turns image paths into public URLs. When empty the
	// prefixed path itself is used as the image reference.
	AssetBaseURL string
}

// Loader reads quickstart directories from a filesystem. It plays the part
// of the upstream fetcher for local previews and catalog syncs.
type Loader struct {
	fs        fs.FS
	prefix    string
	assetBase string
	logger    interfaces.Logger
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig, logger interfaces.Logger) *Loader {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{
		fs:        filesystem,
		prefix:    strings.Trim(path.Clean("/"+strings.TrimSpace(cfg.PathPrefix)), "/"),
		assetBase: strings.TrimRight(strings.TrimSpace(cfg.AssetBaseURL), "/"),
		logger:    logger,
	}
}

// DetectType classifies a file by extension.
func DetectType(name string) interfaces.FileType {
	if fileType, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return fileType
	}
	return interfaces.FileTypeOther
}

// LoadQuickstart returns every file below dir in lexical walk order. Hidden
// files and directories are skipped.
func (l *Loader) LoadQuickstart(ctx context.Context, dir string) ([]interfaces.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := cleanDir(dir)
	files := []interfaces.FileMetadata{}

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if current != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		file, err := l.loadFile(current, d.Name())
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("quickstart source load %s: %w", root, walkErr)
	}

	l.logger.Debug("quickstart.source.loaded", "dir", root, "files", len(files))
	return files, nil
}

// Discover lists the quickstart directories under root: directories that
// directly contain config.yml or config.yaml. Discovered directories are not
// searched further.
func (l *Loader) Discover(ctx context.Context, root string) ([]string, error) {
	root = cleanDir(root)
	var dirs []string

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if current != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.hasConfig(current) {
			dirs = append(dirs, current)
			return fs.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("quickstart source discover %s: %w", root, walkErr)
	}
	return dirs, nil
}

func (l *Loader) loadFile(rel, name string) (interfaces.FileMetadata, error) {
	filePath := rel
	if l.prefix != "" {
		filePath = path.Join(l.prefix, rel)
	}

	file := interfaces.FileMetadata{
		FilePath: filePath,
		FileName: name,
		Type:     DetectType(name),
	}

	if file.Type == interfaces.FileTypeImage {
		file.Content = l.assetURL(filePath)
		return file, nil
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return interfaces.FileMetadata{}, fmt.Errorf("read %s: %w", rel, err)
	}
	file.Content = string(data)
	return file, nil
}

func (l *Loader) assetURL(filePath string) string {
	if l.assetBase == "" {
		return filePath
	}
	return l.assetBase + "/" + filePath
}

func (l *Loader) hasConfig(dir string) bool {
	for _, name := range configNames {
		if info, err := fs.Stat(l.fs, path.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func cleanDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "."
	}
	if dir = strings.TrimPrefix(path.Clean(dir), "/"); dir == "" {
		return "."
	}
	return dir
}
