// Package seed tracks consumption of the one-time seed references that
// authorize record initialization. This is the slice of the ledger view the
// genesis rule needs: a reference is either unspent or consumed, exactly
// once, forever.
package seed

import "context"

type Store interface {
	// Spent reports whether ref has already been consumed.
	Spent(ctx context.Context, ref string) (bool, error)
	// Consume marks ref consumed; sentinel.ErrAlreadyUsed on the second
	// and any later attempt.
	Consume(ctx context.Context, ref string) error
}
