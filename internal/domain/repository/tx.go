package repository

import "context"

// TxManager runs fn inside one transaction. Repository calls made with the
// context passed to fn join that transaction; nested calls reuse it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
