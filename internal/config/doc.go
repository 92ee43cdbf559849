// Package config provides layered configuration for scribe.
//
// Settings are resolved from the lowest layer to the highest:
//
//	1. Built-in defaults
//	2. Config file (TOML or YAML, chosen by extension)
//	3. Environment variables with the SCRIBE_ prefix
//	4. Command line flags, applied by the caller
//
// A file might look like:
//
//	[editor]
//	fps = 60
//	caption = "An editor"
//	background = "#ffffff"
//
//	[keys]
//	quit = ["Ctrl+Q", "<C-x>"]
//
// The watcher sub-package reports changes to the file so it can be
// reloaded while the editor runs.
package config
