/*
Package config reads libee settings from YAML or JSON documents.

Config wraps a map[string]any and exposes typed accessors that return a
default when a key is missing or holds the wrong type:

	cfg, err := config.FromFile("libee.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	metrics := cfg.Bool("metrics", false)
	level := cfg.LogLevel("log_level", slog.LevelInfo)
	debug := cfg.Sub("debug")
	output := debug.String("output", "none")

Nested mappings are reached with Sub; a missing or non-map key yields an
empty Config, so chained lookups never fail.

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
