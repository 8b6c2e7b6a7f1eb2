// Package config handles YAML config file loading for the parley CLI.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references with
// environment values before the YAML is parsed. An unset or empty
// variable falls back to the default when one is given, otherwise to
// the empty string; required values fail at downstream validation
// instead (e.g. the adapter URL check).
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(ref string) string {
		m := envVarPattern.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return strings.TrimPrefix(m[2], ":-")
	})
}
