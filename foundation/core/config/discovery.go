// File: discovery.go
// Title: Configuration File Discovery
// Description: Searches a list of directories for the first configuration
//              file with a known base name and extension.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-15
// Modified: 2026-10-04

package config

import (
	"os"
	"path/filepath"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// DiscoveryOptions defines where Discover looks for a configuration file
type DiscoveryOptions struct {
	Paths      []string
	Filenames  []string
	Extensions []string
	EnvPrefix  string
	Defaults   map[string]interface{}
	// Required makes a missing file an error instead of an empty config
	Required bool
}

// DefaultDiscoveryOptions returns the search list for name: the working
// directory, ./configs, the user config directory and /etc/<name>
func DefaultDiscoveryOptions(name string) DiscoveryOptions {
	paths := []string{".", "./configs"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, name))
	}
	paths = append(paths, filepath.Join("/etc", name))

	return DiscoveryOptions{
		Paths:      paths,
		Filenames:  []string{name},
		Extensions: []string{".toml", ".yaml", ".yml"},
	}
}

// FindConfigFile returns the first existing candidate file
func FindConfigFile(options DiscoveryOptions) (string, error) {
	for _, candidate := range ListPossibleConfigFiles(options) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", gcerror.New("no configuration file found").
		WithCode(gcerror.CodeNotFound).
		WithOperation("config.FindConfigFile").
		WithDetail("searched", len(options.Paths))
}

// ListPossibleConfigFiles lists candidates in search order
func ListPossibleConfigFiles(options DiscoveryOptions) []string {
	var files []string
	for _, dir := range options.Paths {
		for _, name := range options.Filenames {
			for _, ext := range options.Extensions {
				files = append(files, filepath.Join(dir, name+ext))
			}
		}
	}
	return files
}

// Discover loads the first configuration file found. Without a file it
// returns an environment-only configuration unless Required is set.
func Discover(options DiscoveryOptions) (*Config, error) {
	path, err := FindConfigFile(options)
	if err != nil {
		if options.Required {
			return nil, err
		}
		return New(options.EnvPrefix, options.Defaults), nil
	}

	return LoadWithOptions(path, LoadOptions{
		Format:    FormatAuto,
		EnvPrefix: options.EnvPrefix,
		Defaults:  options.Defaults,
	})
}
