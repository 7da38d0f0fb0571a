package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/domain/repositories"
	"github.com/rasoomlabs/rasoom/internal/perf"
	"github.com/rasoomlabs/rasoom/internal/routing"
)

// ErrUndecodable marks input that could not be recovered as a Rasoom frame.
// Callers log and drop; the payload behind it must not be trusted.
var ErrUndecodable = errors.New("frame is not a recoverable rasoom message")

// Dispatcher pushes an encoded message toward the agents subscribed to its
// tier. The websocket hub implements this.
type Dispatcher interface {
	Dispatch(message *entities.RasoomMessage) error
}

// MessageService is the boundary the external MCP hub calls: it encodes
// submissions into wire frames, archives them, hands them to the
// dispatcher, and decodes frames arriving from agents.
type MessageService struct {
	codec      *Codec
	repo       repositories.MessageRepository
	dispatcher Dispatcher
	monitor    *perf.Monitor
	logger     *zap.Logger
}

// NewMessageService wires the hub-facing service. dispatcher may be nil
// when no live agents are attached (messages are still archived).
func NewMessageService(
	codec *Codec,
	repo repositories.MessageRepository,
	dispatcher Dispatcher,
	monitor *perf.Monitor,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		codec:      codec,
		repo:       repo,
		dispatcher: dispatcher,
		monitor:    monitor,
		logger:     logger,
	}
}

// SetDispatcher attaches the live dispatcher after construction. The hub
// needs the service to decode inbound frames, so the two are wired in two
// steps at startup.
func (s *MessageService) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// Submit encodes a (gesture, affect, tier) submission and returns the
// message identifier. The frame is verified by an immediate decode before
// it is archived or dispatched; both halves of the round trip feed the
// performance monitor.
func (s *MessageService) Submit(
	ctx context.Context,
	senderID string,
	tier entities.Tier,
	gesture entities.GestureFeatures,
	affect entities.AffectiveState,
) (*entities.RasoomMessage, error) {
	encodeStart := time.Now()
	frame, err := s.codec.Encode(gesture, affect, tier)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	encodeTime := time.Since(encodeStart)

	decodeStart := time.Now()
	intent := s.codec.Decode(frame)
	decodeTime := time.Since(decodeStart)
	if intent == nil {
		return nil, errors.New("encoded frame failed verification decode")
	}

	if s.monitor != nil {
		s.monitor.RecordTrial(encodeTime, decodeTime, len(frame))
	}

	message := &entities.RasoomMessage{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Tier:      routing.TierForIntent(intent),
		Type:      intent.Type,
		Frame:     frame,
		CreatedAt: time.Now(),
	}
	if err := message.Validate(); err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, message); err != nil {
			return nil, fmt.Errorf("archive message: %w", err)
		}
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(message); err != nil {
			// Archived but undelivered: the transport owns retries, not us.
			s.logger.Warn("Message archived but not dispatched",
				zap.String("messageID", message.ID),
				zap.String("tier", string(message.Tier)),
				zap.Error(err))
		}
	}

	s.logger.Info("Message encoded",
		zap.String("messageID", message.ID),
		zap.String("senderID", senderID),
		zap.String("tier", string(message.Tier)),
		zap.Int("frameBytes", len(frame)))
	return message, nil
}

// Receive decodes a frame arriving from an agent. Undecodable frames
// surface as ErrUndecodable so the transport can log and drop them.
func (s *MessageService) Receive(ctx context.Context, senderID string, frame []byte) (*entities.DecodedIntent, error) {
	decodeStart := time.Now()
	intent := s.codec.Decode(frame)
	decodeTime := time.Since(decodeStart)

	if intent == nil {
		s.logger.Warn("Dropping undecodable frame",
			zap.String("senderID", senderID),
			zap.Int("frameBytes", len(frame)))
		return nil, ErrUndecodable
	}

	if s.monitor != nil {
		s.monitor.RecordTrial(0, decodeTime, len(frame))
	}

	s.logger.Info("Frame decoded",
		zap.String("senderID", senderID),
		zap.String("tier", string(routing.TierForIntent(intent))),
		zap.Float64("gamaka", intent.Gamaka))
	return intent, nil
}

// Stats returns the current performance snapshot.
func (s *MessageService) Stats() perf.Snapshot {
	if s.monitor == nil {
		return perf.Snapshot{}
	}
	return s.monitor.Snapshot()
}
