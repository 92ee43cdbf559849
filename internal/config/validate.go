package config

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/dshills/scribe/internal/input/key"
)

// Frame rate bounds accepted by Validate.
const (
	MinFPS = 1
	MaxFPS = 240
)

// Validate checks every setting and returns ValidationErrors listing all
// failures, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	if c.Editor.FPS < MinFPS || c.Editor.FPS > MaxFPS {
		add("editor.fps", c.Editor.FPS, "must be between 1 and 240")
	}
	if _, err := colorful.Hex(c.Editor.Background); err != nil {
		add("editor.background", c.Editor.Background, "must be a hex colour like #ffffff")
	}
	if _, err := colorful.Hex(c.Editor.Foreground); err != nil {
		add("editor.foreground", c.Editor.Foreground, "must be a hex colour like #000000")
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		add("log.level", c.Log.Level, "unknown level")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		add("log.format", c.Log.Format, `must be "console" or "json"`)
	}

	for _, spec := range c.Keys.Quit {
		if _, err := key.Parse(spec); err != nil {
			add("keys.quit", spec, err.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
