package ops

import (
	"context"
	"fmt"
)

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

// Purge removes every stored code. Always succeeds, including on an
// already-empty store.
func (e *Env) Purge(ctx context.Context) (*PurgeOutput, error) {
	count, err := e.Store.Count()
	if err != nil {
		return nil, err
	}
	if err := e.Store.DeleteAll(); err != nil {
		return nil, err
	}
	return &PurgeOutput{
		Deleted: count,
		Message: fmt.Sprintf("deleted %d code(s)", count),
	}, nil
}
