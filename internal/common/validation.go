package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// UnknownHints returns the role and seniority hints that have no priority
// table. Unknown hints are not errors, they simply boost nothing.
func UnknownHints(role, seniority string, knownRoles, knownLevels []string) []string {
	var unknown []string
	if r := strings.ToLower(strings.TrimSpace(role)); r != "" && !slices.Contains(knownRoles, r) {
		unknown = append(unknown, "role:"+role)
	}
	if s := strings.ToLower(strings.TrimSpace(seniority)); s != "" && !slices.Contains(knownLevels, s) {
		unknown = append(unknown, "seniority:"+seniority)
	}
	return unknown
}
