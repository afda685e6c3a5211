package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/irdeck/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
	Message string `json:"message"`
}

// Delete removes one stored code. Deleting an absent name succeeds with
// Removed=false so callers can distinguish without an error path.
func (e *Env) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	name := e.Store.TruncateName(input.Name)
	removed, err := e.Store.Delete(input.Name)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("deleted %q", name)
	if !removed {
		msg = fmt.Sprintf("no code named %q", name)
	}
	return &DeleteOutput{Name: name, Removed: removed, Message: msg}, nil
}
