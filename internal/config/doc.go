// Package config loads panes settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← PANES_LOG_LEVEL, PANES_KEY_SCHEME, PANES_LAYOUT
//	├─────────────────────────────┤
//	│  2. Config File             │  ← panes.toml or panes.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A file is TOML or YAML by extension. A leading byte order mark is
// ignored. Unknown TOML keys are rejected so typos surface early.
//
//	cfg, err := config.Load("panes.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Keys.Scheme)
//
// Watch reloads a file when it changes and hands each valid result to a
// callback.
package config
