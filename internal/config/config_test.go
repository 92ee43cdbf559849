package config

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/scribe/internal/config/loader"
	"github.com/dshills/scribe/internal/input/key"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Editor.FPS != 60 {
		t.Errorf("Editor.FPS = %d, want 60", cfg.Editor.FPS)
	}
	if cfg.Editor.Caption != "An editor" {
		t.Errorf("Editor.Caption = %q, want %q", cfg.Editor.Caption, "An editor")
	}
	if !reflect.DeepEqual(cfg.Keys.Quit, StringList{"Ctrl+Q"}) {
		t.Errorf("Keys.Quit = %v, want [Ctrl+Q]", cfg.Keys.Quit)
	}
	if cfg.Editor.BackgroundColor() != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Errorf("BackgroundColor() = %v, want white", cfg.Editor.BackgroundColor())
	}
}

func TestLoadLayers(t *testing.T) {
	files := memFS{
		"/scribe.toml": `
[editor]
fps = 30
caption = "notes"

[keys]
quit = ["Ctrl+Q", "<C-x>"]
`,
	}

	cfg, err := Load(LoadOptions{
		Path:    "/scribe.toml",
		FS:      files,
		Environ: []string{"SCRIBE_EDITOR_FPS=90", "SCRIBE_LOG_LEVEL=debug"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Editor.FPS != 90 {
		t.Errorf("Editor.FPS = %d, want 90 (env beats file)", cfg.Editor.FPS)
	}
	if cfg.Editor.Caption != "notes" {
		t.Errorf("Editor.Caption = %q, want notes", cfg.Editor.Caption)
	}
	if cfg.Editor.Background != "#ffffff" {
		t.Errorf("Editor.Background = %q, want default", cfg.Editor.Background)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if !reflect.DeepEqual(cfg.Keys.Quit, StringList{"Ctrl+Q", "<C-x>"}) {
		t.Errorf("Keys.Quit = %v", cfg.Keys.Quit)
	}
}

func TestLoadYAML(t *testing.T) {
	files := memFS{
		"/scribe.yaml": `
editor:
  background: "#102030"
keys:
  quit: "<C-x>"
scripts:
  paths:
    - a.lua
    - b.lua
`,
	}

	cfg, err := Load(LoadOptions{Path: "/scribe.yaml", FS: files, Environ: []string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.Background != "#102030" {
		t.Errorf("Editor.Background = %q", cfg.Editor.Background)
	}
	if !reflect.DeepEqual(cfg.Keys.Quit, StringList{"<C-x>"}) {
		t.Errorf("Keys.Quit = %v, want [<C-x>]", cfg.Keys.Quit)
	}
	if !reflect.DeepEqual(cfg.Scripts.Paths, StringList{"a.lua", "b.lua"}) {
		t.Errorf("Scripts.Paths = %v", cfg.Scripts.Paths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(LoadOptions{Path: "/absent.toml", FS: memFS{}, Environ: []string{}})
	if err != nil {
		t.Fatalf("Load() of optional missing file error = %v", err)
	}
	if cfg.Editor.FPS != 60 {
		t.Errorf("Editor.FPS = %d, want default", cfg.Editor.FPS)
	}

	_, err = Load(LoadOptions{Path: "/absent.toml", FS: memFS{}, Required: true, Environ: []string{}})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() of required missing file error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadParseError(t *testing.T) {
	files := memFS{"/bad.toml": "[editor\n"}
	_, err := Load(LoadOptions{Path: "/bad.toml", FS: files, Environ: []string{}})

	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Load() error = %v, want *loader.ParseError", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(LoadOptions{Environ: []string{"SCRIBE_EDITOR_FPS=0"}})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		paths  []string
	}{
		{"valid", func(*Config) {}, nil},
		{"fps low", func(c *Config) { c.Editor.FPS = 0 }, []string{"editor.fps"}},
		{"fps high", func(c *Config) { c.Editor.FPS = 1000 }, []string{"editor.fps"}},
		{"colour", func(c *Config) { c.Editor.Background = "white" }, []string{"editor.background"}},
		{"level", func(c *Config) { c.Log.Level = "loud" }, []string{"log.level"}},
		{"format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format"}},
		{"quit key", func(c *Config) { c.Keys.Quit = StringList{"Ctrl+"} }, []string{"keys.quit"}},
		{"several", func(c *Config) {
			c.Editor.FPS = -1
			c.Editor.Foreground = "#zzz"
		}, []string{"editor.fps", "editor.foreground"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.paths == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() = %v, want ValidationErrors", err)
			}
			var got []string
			for _, v := range verrs {
				got = append(got, v.Path)
			}
			if !reflect.DeepEqual(got, tt.paths) {
				t.Errorf("failed paths = %v, want %v", got, tt.paths)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Error("ValidationErrors should match ErrValidationFailed")
			}
		})
	}
}

func TestQuitChords(t *testing.T) {
	keys := KeysConfig{Quit: StringList{"Ctrl+Q", "<F10>"}}
	chords, err := keys.QuitChords()
	if err != nil {
		t.Fatalf("QuitChords() error = %v", err)
	}
	if len(chords) != 2 {
		t.Fatalf("QuitChords() returned %d chords", len(chords))
	}
	if chords[0].Key != key.KeyRune || chords[0].Rune != 'q' || chords[0].Modifiers != key.ModCtrl {
		t.Errorf("chords[0] = %+v, want Ctrl+q", chords[0])
	}
	if chords[1].Key != key.KeyF10 {
		t.Errorf("chords[1] = %+v, want F10", chords[1])
	}
}

func TestEncode(t *testing.T) {
	cfg := Default()

	data, err := cfg.Encode(loader.FormatTOML)
	if err != nil {
		t.Fatalf("Encode(toml) error = %v", err)
	}
	if !strings.Contains(string(data), "fps = 60") {
		t.Errorf("TOML output missing fps:\n%s", data)
	}

	// Round trip through the loader.
	m, err := loader.Parse("encoded", loader.FormatTOML, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	decoded := &Config{}
	if err := Decode(m, decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Editor != cfg.Editor || decoded.Log != cfg.Log {
		t.Errorf("decoded = %+v, want %+v", decoded, cfg)
	}
	if !reflect.DeepEqual(decoded.Keys.Quit, cfg.Keys.Quit) {
		t.Errorf("decoded Keys.Quit = %v, want %v", decoded.Keys.Quit, cfg.Keys.Quit)
	}

	if _, err := cfg.Encode(loader.FormatUnknown); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("Encode(unknown) error = %v", err)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Keys.Quit[0] = "Ctrl+X"
	clone.Editor.FPS = 10

	if cfg.Keys.Quit[0] != "Ctrl+Q" || cfg.Editor.FPS != 60 {
		t.Error("Clone() shares state with the original")
	}
}
