package calllog

import "context"

// Repository is an append-only store of finished calls.
type Repository interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}
