package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/scribe/internal/config/loader"
	"github.com/dshills/scribe/internal/input/key"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SCRIBE_"

// Config is the complete editor configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Keys    KeysConfig    `toml:"keys" yaml:"keys"`
	Scripts ScriptsConfig `toml:"scripts" yaml:"scripts"`
	Trace   TraceConfig   `toml:"trace" yaml:"trace"`
}

// EditorConfig holds display settings.
type EditorConfig struct {
	// FPS is the target frame rate of the main loop.
	FPS int `toml:"fps" yaml:"fps"`

	// Caption is the window or terminal title.
	Caption string `toml:"caption" yaml:"caption"`

	// Background and Foreground are hex colours such as "#ffffff".
	Background string `toml:"background" yaml:"background"`
	Foreground string `toml:"foreground" yaml:"foreground"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `toml:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format" yaml:"format"`

	// Output is "stderr", "stdout" or a file path. Empty selects a file in
	// the user cache directory when the terminal is in use.
	Output string `toml:"output" yaml:"output"`
}

// KeysConfig holds key bindings.
type KeysConfig struct {
	// Quit lists key specifications that close the editor.
	Quit StringList `toml:"quit" yaml:"quit"`
}

// ScriptsConfig lists Lua scripts loaded at startup.
type ScriptsConfig struct {
	Paths StringList `toml:"paths" yaml:"paths"`
}

// TraceConfig controls event recording.
type TraceConfig struct {
	// Record is a file that receives every dispatched event. Empty disables
	// recording.
	Record string `toml:"record" yaml:"record"`
}

// StringList is a list of strings that also accepts a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			FPS:        60,
			Caption:    "An editor",
			Background: "#ffffff",
			Foreground: "#000000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Keys: KeysConfig{
			Quit: StringList{"Ctrl+Q"},
		},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	return filepath.Join(UserConfigDir(), "config.toml")
}

// UserConfigDir returns the scribe directory under the user config dir.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scribe")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "scribe")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scribe")
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is the config file. Empty skips the file layer.
	Path string

	// Required makes a missing file an error.
	Required bool

	// Environ overrides os.Environ for the environment layer.
	Environ []string

	// FS overrides the OS file system.
	FS loader.FileSystem
}

// Load resolves defaults, the config file and the environment into a
// validated Config.
func Load(opts LoadOptions) (*Config, error) {
	merged := map[string]any{}

	if opts.Path != "" {
		fsys := opts.FS
		if fsys == nil {
			fsys = loader.OSFS{}
		}
		if opts.Required {
			if _, err := fsys.ReadFile(opts.Path); errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, opts.Path)
			}
		}
		file, err := loader.NewFileLoaderWithFS(fsys, opts.Path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	env := loader.NewEnvLoader(EnvPrefix)
	if opts.Environ != nil {
		env = loader.NewEnvLoaderFrom(EnvPrefix, opts.Environ)
	}
	vars, err := env.Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, vars)

	cfg := Default()
	if err := Decode(merged, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies a settings map on top of cfg. Keys absent from m leave
// the corresponding fields untouched.
func Decode(m map[string]any, cfg *Config) error {
	if len(m) == 0 {
		return nil
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// Encode renders cfg in the given file format.
func (c *Config) Encode(format loader.Format) ([]byte, error) {
	switch format {
	case loader.FormatTOML:
		return toml.Marshal(c)
	case loader.FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %v", loader.ErrUnsupportedFormat, format)
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Keys.Quit = append(StringList(nil), c.Keys.Quit...)
	clone.Scripts.Paths = append(StringList(nil), c.Scripts.Paths...)
	return &clone
}

// BackgroundColor returns the parsed background colour, white if invalid.
func (e EditorConfig) BackgroundColor() colorful.Color {
	return parseColor(e.Background, colorful.Color{R: 1, G: 1, B: 1})
}

// ForegroundColor returns the parsed foreground colour, black if invalid.
func (e EditorConfig) ForegroundColor() colorful.Color {
	return parseColor(e.Foreground, colorful.Color{})
}

func parseColor(s string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// QuitChords parses the quit key specifications.
func (k KeysConfig) QuitChords() ([]key.Chord, error) {
	chords := make([]key.Chord, 0, len(k.Quit))
	for _, spec := range k.Quit {
		c, err := key.Parse(spec)
		if err != nil {
			return nil, err
		}
		chords = append(chords, c)
	}
	return chords, nil
}
