// Package config loads reefline settings.
//
// Settings come from three layers, highest priority first:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← REEFLINE_*, fish_color_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/reefline/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The file may be TOML or YAML, chosen by extension. Each layer is read
// into a map by the loader package, the maps are merged, and the result
// is decoded into a Config and validated.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loading
//   - watcher: fsnotify-based live reload
//
// # Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	p := pager.New(cfg.PagerOptions())
package config
