package repositories

import (
	"context"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// MessageRepository abstracts the message archive.
type MessageRepository interface {
	// Create stores a freshly encoded message.
	Create(ctx context.Context, message *entities.RasoomMessage) error
	// GetByID fetches a single message by its identifier.
	GetByID(ctx context.Context, id string) (*entities.RasoomMessage, error)
	// ListByTier returns the most recent messages routed to a tier.
	ListByTier(ctx context.Context, tier entities.Tier, limit int) ([]*entities.RasoomMessage, error)
}
