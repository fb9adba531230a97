package ops

import (
	"context"

	"github.com/hpungsan/contentvault/internal/content"
)

// ArchiveInput contains parameters for the Archive operation.
type ArchiveInput struct {
	ID string `json:"id"`
}

// ArchiveOutput contains the result of the Archive operation.
type ArchiveOutput struct {
	Archived bool   `json:"archived"`
	ID       string `json:"id"`
}

// Archive removes an item from the active list.
func Archive(ctx context.Context, store content.Store, input ArchiveInput) (*ArchiveOutput, error) {
	id, err := validateID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := store.Archive(ctx, id); err != nil {
		return nil, upstreamError(err, "Failed to archive content")
	}
	return &ArchiveOutput{Archived: true, ID: id}, nil
}
