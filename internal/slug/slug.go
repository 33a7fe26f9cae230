// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string. Characters
// outside ASCII letters and digits are collapsed into single hyphens, so
// accented letters act as separators rather than being transliterated.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is acceptable as an explicit slug: non-empty,
// only lowercase ASCII letters, digits and hyphens, with no hyphen at
// either end.
func Valid(s string) bool {
	if strings.Contains(s, "_") {
		return false
	}
	return gosimple.IsSlug(s)
}
