// Package config handles YAML config file loading for assay check.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envRefPattern matches ${VAR} and ${VAR:-default} references.
var envRefPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*(?::-[^}]*)?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} references in the input
// string with their environment variable values. ${VAR} expands to the
// variable, or empty string when unset; ${VAR:-default} falls back to the
// default when the variable is unset or empty.
//
// An unset variable without a default is not an error here. A required
// value left empty surfaces at downstream validation instead, e.g. an S3
// report backend with no bucket.
func ExpandEnv(input string) string {
	return envRefPattern.ReplaceAllStringFunc(input, expandRef)
}

// expandRef resolves a single ${...} reference. The default begins at the
// first ":-"; any later ":-" belongs to the default text itself.
func expandRef(ref string) string {
	name, def, _ := strings.Cut(ref[2:len(ref)-1], ":-")
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return def
}
