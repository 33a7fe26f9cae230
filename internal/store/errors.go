// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"

	"blogcraft/internal/apperr"
)

// Unique constraint names from the migrations, mapped to the message the
// API reports when a write loses a uniqueness race.
var conflictMessages = map[string]string{
	"users_email_lower_key": "user already exists",
	"posts_slug_key":        "a post with this slug already exists",
	"categories_name_key":   "category already exists",
	"categories_slug_key":   "a category with this slug already exists",
}

// writeErr classifies a failed INSERT/UPDATE. Unique violations become
// conflict errors; everything else is wrapped with the operation name.
func writeErr(op string, err error) error {
	if constraint, ok := apperr.IsUniqueViolation(err); ok {
		msg, known := conflictMessages[constraint]
		if !known {
			msg = "resource already exists"
		}
		return apperr.Wrap(apperr.ErrConflict, err, msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}
