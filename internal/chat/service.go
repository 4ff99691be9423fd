package chat

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/metrics"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/normalize"
)

const defaultInboxConcurrency = 8

// Service exposes the messaging operations used by the job-detail, chat and
// inbox screens. The caller identity is always passed in explicitly.
type Service struct {
	store            Store
	dir              Directory
	log              zerolog.Logger
	inboxConcurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for listener and aggregation diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithInboxConcurrency bounds the per-room lookups running at once while
// an inbox is computed.
func WithInboxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.inboxConcurrency = n
		}
	}
}

// NewService returns a Service over store. dir may be nil, in which case
// inbox entries carry only the other participant's id.
func NewService(store Store, dir Directory, opts ...Option) *Service {
	s := &Service{
		store:            store,
		dir:              dir,
		log:              zerolog.Nop(),
		inboxConcurrency: defaultInboxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureRoom returns the room for jobID and the two participants, creating
// it on first use. Calls from both sides, in any order and concurrently,
// yield the same room with the same CreatedAt.
func (s *Service) EnsureRoom(ctx context.Context, jobID, a, b string) (Room, error) {
	id, err := ResolveRoomID(jobID, a, b)
	if err != nil {
		return Room{}, err
	}
	parts, err := NewParticipants(a, b)
	if err != nil {
		return Room{}, err
	}

	room, created, err := s.store.CreateRoomIfAbsent(ctx, Room{
		ID:           id,
		JobID:        normalize.ID(jobID),
		Participants: parts,
	})
	if err != nil {
		return Room{}, err
	}
	if created {
		metrics.RoomsEnsured.WithLabelValues("created").Inc()
		s.log.Info().Str("room_id", room.ID).Str("job_id", room.JobID).Msg("room created")
	} else {
		metrics.RoomsEnsured.WithLabelValues("existing").Inc()
	}
	return room, nil
}

// Room returns a stored room.
func (s *Service) Room(ctx context.Context, roomID string) (Room, error) {
	id := normalize.ID(roomID)
	if id == "" {
		return Room{}, ErrRoomNotFound
	}
	return s.store.GetRoom(ctx, id)
}

// RoomFor returns the room only if userID is one of its participants.
func (s *Service) RoomFor(ctx context.Context, roomID, userID string) (Room, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return Room{}, err
	}
	if !room.Participants.Contains(normalize.ID(userID)) {
		return Room{}, ErrNotParticipant
	}
	return room, nil
}

// Append adds a message to a room log. The content is trimmed first; blank
// content is rejected without touching the store.
func (s *Service) Append(ctx context.Context, roomID, senderID, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		metrics.AppendRejected.WithLabelValues("empty").Inc()
		return Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		metrics.AppendRejected.WithLabelValues("too_long").Inc()
		return Message{}, ErrMessageTooLong
	}

	room, err := s.RoomFor(ctx, roomID, senderID)
	if err != nil {
		metrics.AppendRejected.WithLabelValues(rejectReason(err)).Inc()
		return Message{}, err
	}

	msg, err := s.store.AppendMessage(ctx, room, normalize.ID(senderID), content)
	if err != nil {
		return Message{}, err
	}
	metrics.MessagesAppended.Inc()
	return msg, nil
}

// History returns the newest limit messages of a room in ascending order.
func (s *Service) History(ctx context.Context, roomID string, limit int) ([]Message, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.store.Messages(ctx, room.ID, limit)
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrNotParticipant):
		return "not_participant"
	default:
		return "store"
	}
}
