// Package config handles the ocimport.yaml configuration file: YAML
// loading, environment expansion for credentials, and flag defaults.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR} and ${VAR:-default} references.
var envVarPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*(?::-[^}]*)?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references with the
// corresponding environment values. This is how the bearer token stays
// out of the committed file: `token: ${ODOO_TOKEN}`.
//
// An unset or empty variable takes the default when one is given and
// expands to the empty string otherwise; a missing credential then
// fails downstream when the client is constructed. Unbraced $VAR forms
// are left untouched.
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		name, fallback := splitRef(match)
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		return fallback
	})
}

// splitRef breaks a matched ${...} reference into the variable name and
// its default (empty when none is given).
func splitRef(match string) (name, fallback string) {
	inner := match[2 : len(match)-1]
	if i := strings.Index(inner, ":-"); i >= 0 {
		return inner[:i], inner[i+2:]
	}
	return inner, ""
}
