package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil fields are left unchanged; at least one must be set.
type UpdateInput struct {
	ID       string  `json:"id"`
	Status   *string `json:"status,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Item content.Item `json:"item"`
}

// Update changes an item's status and/or favorite flag.
func Update(ctx context.Context, store content.Store, input UpdateInput) (*UpdateOutput, error) {
	id, err := validateID(input.ID)
	if err != nil {
		return nil, err
	}

	changes := content.Changes{Favorite: input.Favorite}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if err := validateStatus(status); err != nil {
			return nil, err
		}
		changes.Status = &status
	}
	if changes.Empty() {
		return nil, errors.NewInvalidRequest("status or favorite is required")
	}

	item, err := store.Update(ctx, id, changes)
	if err != nil {
		return nil, upstreamError(err, "Failed to update content")
	}
	return &UpdateOutput{Item: *item}, nil
}
