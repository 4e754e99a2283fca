package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID before insert. Keys are generated in Go so
// the same models work against Postgres and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
