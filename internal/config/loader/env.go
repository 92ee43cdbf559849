package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from prefixed environment variables.
// SCRIBE_EDITOR_FPS=30 becomes editor.fps = 30 and SCRIBE_KEYS_QUIT
// becomes keys.quit. Words after the section are joined with underscores.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "SCRIBE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader reading from a fixed KEY=VALUE list.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: func() []string { return environ }}
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path := l.envToPath(name)
		if path == "" {
			continue
		}
		Set(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts SCRIBE_LOG_LEVEL to log.level.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if section == "" {
		return ""
	}
	if !ok || setting == "" {
		return section
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	// JSON arrays allow lists such as SCRIBE_KEYS_QUIT='["Ctrl+Q","<C-x>"]'.
	if strings.HasPrefix(s, "[") {
		var v []any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}
