// File: validation.go
// Title: Configuration Validation
// Description: Rule based validation of configuration values: required
//              keys, value types, numeric bounds and enumerations. Missing
//              keys with a default receive it.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-15
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-15 v0.1.0: Required, type and bound checks
// - 2026-10-04 v0.2.0: OneOf rules, coded validation errors

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	gcerror "github.com/msto63/gecli/foundation/core/error"
)

// ValidationRule defines validation criteria for one configuration key
type ValidationRule struct {
	Required bool
	// Type is one of "string", "int", "bool", "duration"
	Type    string
	Min     *int
	Max     *int
	OneOf   []string
	Default interface{}
}

// ValidationRules maps configuration keys to their rules
type ValidationRules map[string]ValidationRule

// IntPtr is a helper for Min/Max in rule literals
func IntPtr(v int) *int { return &v }

// Validate checks the configuration against rules and returns a
// CodeInvalidConfig error listing every violation, or nil
func (c *Config) Validate(rules ValidationRules) error {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, key := range keys {
		if msg := c.validateField(key, rules[key]); msg != "" {
			problems = append(problems, msg)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return gcerror.New("configuration invalid: "+strings.Join(problems, "; ")).
		WithCode(gcerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("violations", len(problems))
}

func (c *Config) validateField(key string, rule ValidationRule) string {
	if !c.Has(key) {
		if rule.Required {
			return fmt.Sprintf("required key '%s' is missing", key)
		}
		if rule.Default != nil {
			c.Set(key, rule.Default)
		}
		return ""
	}

	raw := c.GetString(key)

	switch rule.Type {
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Sprintf("key '%s' must be an integer, got %q", key, raw)
		}
		if rule.Min != nil && n < *rule.Min {
			return fmt.Sprintf("key '%s' must be >= %d, got %d", key, *rule.Min, n)
		}
		if rule.Max != nil && n > *rule.Max {
			return fmt.Sprintf("key '%s' must be <= %d, got %d", key, *rule.Max, n)
		}
	case "bool":
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Sprintf("key '%s' must be a boolean, got %q", key, raw)
		}
	case "duration":
		if _, err := time.ParseDuration(raw); err != nil {
			if _, nerr := strconv.Atoi(raw); nerr != nil {
				return fmt.Sprintf("key '%s' must be a duration, got %q", key, raw)
			}
		}
	case "string", "":
	default:
		return fmt.Sprintf("key '%s' has unknown rule type %q", key, rule.Type)
	}

	if len(rule.OneOf) > 0 {
		for _, allowed := range rule.OneOf {
			if strings.EqualFold(raw, allowed) {
				return ""
			}
		}
		return fmt.Sprintf("key '%s' must be one of [%s], got %q", key, strings.Join(rule.OneOf, ", "), raw)
	}

	return ""
}
