package shared

import "context"

// Tx is an opaque transaction handle. Repositories accept it through
// WithTx so multi-aggregate operations share one atomic unit without
// reading connection state from anywhere ambient.
type Tx interface{}

// UnitOfWork starts a transaction and runs fn inside it. The returned
// error of fn decides commit or rollback.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
