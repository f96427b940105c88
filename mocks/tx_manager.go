package mocks

import "context"

// TxManager runs the transaction body directly. Tests observe the body's
// repository calls through the repository mocks.
type TxManager struct {
	Calls int
}

func (t *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
