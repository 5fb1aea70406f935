// Package members integrates with the external member directory, the
// system of record for member identity and role. The core only consults
// it by id; it never persists members locally.
package members

import "context"

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Directory resolves external member ids. Lookup returns (nil, nil) when
// the directory answers that no such member exists; a non-nil error means
// the directory itself could not be reached and must not be treated as
// absence.
type Directory interface {
	Lookup(ctx context.Context, externalID string) (*Member, error)
	Create(ctx context.Context, name, role string) (*Member, error)
}
