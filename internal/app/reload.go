package app

import (
	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/config/watcher"
)

// WatchConfig reloads the configuration whenever the file at opts.Path
// changes. Invalid files are logged and ignored.
func (e *Editor) WatchConfig(w *watcher.Watcher, opts config.LoadOptions) error {
	if err := w.Watch(opts.Path); err != nil {
		return err
	}

	logger := WithComponent(e.logger, "config")
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Warn().Str("path", ev.Path).Stringer("op", ev.Op).Msg("config file went away; keeping current settings")
			return
		}
		cfg, err := config.Load(opts)
		if err != nil {
			logger.Warn().Err(err).Str("path", ev.Path).Msg("config reload failed")
			return
		}
		e.Reload(cfg)
	})
	return nil
}
