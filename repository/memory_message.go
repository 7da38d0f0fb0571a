package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// ErrMessageNotFound is returned when a message identifier is unknown.
var ErrMessageNotFound = errors.New("message not found")

// MemoryMessageRepository is an in-memory message archive. It is the
// default backend when no MongoDB is configured and doubles as the test
// double for the hub service.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*entities.RasoomMessage
	byTier   map[entities.Tier][]string // insertion order per tier
}

// NewMemoryMessageRepository creates an empty in-memory archive.
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		messages: make(map[string]*entities.RasoomMessage),
		byTier:   make(map[entities.Tier][]string),
	}
}

// Create implements repositories.MessageRepository.
func (m *MemoryMessageRepository) Create(ctx context.Context, message *entities.RasoomMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if err := message.Validate(); err != nil {
		return err
	}
	if message.ID == "" {
		return errors.New("message ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.messages[message.ID]; exists {
		return errors.New("message already exists")
	}
	stored := *message
	m.messages[message.ID] = &stored
	m.byTier[message.Tier] = append(m.byTier[message.Tier], message.ID)
	return nil
}

// GetByID implements repositories.MessageRepository.
func (m *MemoryMessageRepository) GetByID(ctx context.Context, id string) (*entities.RasoomMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	message, exists := m.messages[id]
	if !exists {
		return nil, ErrMessageNotFound
	}
	copied := *message
	return &copied, nil
}

// ListByTier implements repositories.MessageRepository: most recent first.
func (m *MemoryMessageRepository) ListByTier(ctx context.Context, tier entities.Tier, limit int) ([]*entities.RasoomMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byTier[tier]
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	out := make([]*entities.RasoomMessage, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *m.messages[ids[i]]
		out = append(out, &copied)
	}
	return out, nil
}
