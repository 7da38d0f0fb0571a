package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/domain/repositories"
	"github.com/rasoomlabs/rasoom/repository"
)

type MessageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a new MongoDB message repository
func NewMessageRepository(db *mongo.Database) repositories.MessageRepository {
	return &MessageRepository{
		collection: db.Collection("messages"),
	}
}

type messageDocument struct {
	ID        string    `bson:"_id"`
	SenderID  string    `bson:"sender_id"`
	Tier      string    `bson:"tier"`
	Type      uint8     `bson:"type"`
	Frame     []byte    `bson:"frame"`
	CreatedAt time.Time `bson:"created_at"`
}

// Create implements repositories.MessageRepository
func (r *MessageRepository) Create(ctx context.Context, message *entities.RasoomMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if err := message.Validate(); err != nil {
		return err
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	doc := messageDocument{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Tier:      string(message.Tier),
		Type:      uint8(message.Type),
		Frame:     message.Frame,
		CreatedAt: message.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID implements repositories.MessageRepository
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*entities.RasoomMessage, error) {
	if id == "" {
		return nil, errors.New("message ID cannot be empty")
	}

	var doc messageDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return docToMessage(&doc), nil
}

// ListByTier implements repositories.MessageRepository: most recent first.
func (r *MessageRepository) ListByTier(ctx context.Context, tier entities.Tier, limit int) ([]*entities.RasoomMessage, error) {
	if entities.TierIndex(tier) < 0 {
		return nil, fmt.Errorf("unknown tier %q", tier)
	}
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"tier": string(tier)}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for tier %s: %w", tier, err)
	}
	defer cursor.Close(ctx)

	var messages []*entities.RasoomMessage
	for cursor.Next(ctx) {
		var doc messageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message document: %w", err)
		}
		messages = append(messages, docToMessage(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error listing tier %s: %w", tier, err)
	}

	return messages, nil
}

func docToMessage(doc *messageDocument) *entities.RasoomMessage {
	return &entities.RasoomMessage{
		ID:        doc.ID,
		SenderID:  doc.SenderID,
		Tier:      entities.Tier(doc.Tier),
		Type:      entities.MessageType(doc.Type),
		Frame:     doc.Frame,
		CreatedAt: doc.CreatedAt,
	}
}
