// Package loader reads configuration layers into nested maps.
//
// Files are parsed as TOML or YAML according to their extension.
// Environment variables with a prefix form a separate layer. Layers are
// combined with DeepMerge, later layers taking precedence.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Format is a configuration file syntax.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for files whose extension is not
// .toml, .yaml or .yml.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// FileLoader loads configuration from a TOML or YAML file.
type FileLoader struct {
	fs   FileSystem
	path string
}

// NewFileLoader creates a loader for path on the OS file system.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{fs: OSFS{}, path: path}
}

// NewFileLoaderWithFS creates a loader with a custom file system.
func NewFileLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path}
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads and parses the file. A missing file yields nil, nil.
func (l *FileLoader) Load() (map[string]any, error) {
	format := FormatOf(l.path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, l.path)
	}

	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Parse(l.path, format, data)
}

// LoadFromReader parses configuration in the given format from r.
func LoadFromReader(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse("<reader>", format, data)
}

// Parse decodes data into a map. An empty document yields an empty map.
func Parse(source string, format Format, data []byte) (map[string]any, error) {
	config := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return nil, perr
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		if config == nil {
			config = map[string]any{}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}
	return config, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
