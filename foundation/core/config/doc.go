// Package config provides configuration loading for gecli.
//
// Package: config
// Title: gecli Configuration
// Description: TOML and YAML configuration files with dot notation access,
//              environment overrides, defaults, rule based validation,
//              file discovery and fsnotify based reloading.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-15
// Modified: 2026-10-04
//
// Usage:
//
//	cfg, err := config.Discover(config.DiscoveryOptions{
//		Paths:      []string{".", "./configs"},
//		Filenames:  []string{"gecli"},
//		Extensions: []string{".toml", ".yaml"},
//		EnvPrefix:  "GECLI",
//	})
//
//	prompt := cfg.GetString("cli.prompt", "> ")
//	size := cfg.GetInt("cli.buffer_size", 128)
//
//	cfg.OnChange(func(old, updated *config.Config) {
//		logger.SetLevel(...)
//	})
//	_ = cfg.StartWatching()
//	defer cfg.StopWatching()
package config
