// Package memstore is an in-process implementation of chat.Store. It backs
// the test suites and STORE_BACKEND=memory for local development.
package memstore

import (
	"context"
	"crypto/rand"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

// Store keeps rooms and their logs in memory.
type Store struct {
	mu      sync.RWMutex
	rooms   map[string]chat.Room
	logs    map[string][]chat.Message
	lastTS  time.Time
	now     func() time.Time
	entropy io.Reader
	hub     *Hub
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		rooms:   make(map[string]chat.Room),
		logs:    make(map[string][]chat.Message),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
		hub:     NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func roomKey(id string) string { return "room:" + id }
func userKey(id string) string { return "user:" + id }

// Hub exposes the listener hub, mostly so tests can observe listener counts.
func (s *Store) Hub() *Hub { return s.hub }

// tick returns a timestamp strictly after every one handed out before.
// Callers hold s.mu.
func (s *Store) tick() time.Time {
	ts := s.now().UTC()
	if !ts.After(s.lastTS) {
		ts = s.lastTS.Add(time.Nanosecond)
	}
	s.lastTS = ts
	return ts
}

// CreateRoomIfAbsent implements chat.Store.
func (s *Store) CreateRoomIfAbsent(ctx context.Context, room chat.Room) (chat.Room, bool, error) {
	if err := ctx.Err(); err != nil {
		return chat.Room{}, false, chat.Unavailable("create room", err)
	}

	s.mu.Lock()
	if existing, ok := s.rooms[room.ID]; ok {
		s.mu.Unlock()
		return existing, false, nil
	}
	room.CreatedAt = s.tick()
	s.rooms[room.ID] = room
	s.mu.Unlock()

	s.hub.Notify(userKey(room.Participants[0]))
	s.hub.Notify(userKey(room.Participants[1]))
	return room, true, nil
}

// GetRoom implements chat.Store.
func (s *Store) GetRoom(ctx context.Context, id string) (chat.Room, error) {
	if err := ctx.Err(); err != nil {
		return chat.Room{}, chat.Unavailable("get room", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return chat.Room{}, chat.ErrRoomNotFound
	}
	return room, nil
}

// RoomsFor implements chat.Store. Rooms come back ordered by id.
func (s *Store) RoomsFor(ctx context.Context, userID string) ([]chat.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, chat.Unavailable("list rooms", err)
	}

	s.mu.RLock()
	var rooms []chat.Room
	for _, r := range s.rooms {
		if r.Participants.Contains(userID) {
			rooms = append(rooms, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(rooms, func(a, b chat.Room) int { return strings.Compare(a.ID, b.ID) })
	return rooms, nil
}

// AppendMessage implements chat.Store.
func (s *Store) AppendMessage(ctx context.Context, room chat.Room, senderID, content string) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, chat.Unavailable("append message", err)
	}

	s.mu.Lock()
	stored, ok := s.rooms[room.ID]
	if !ok {
		s.mu.Unlock()
		return chat.Message{}, chat.ErrRoomNotFound
	}
	ts := s.tick()
	msg := chat.Message{
		ID:        ulid.MustNew(ulid.Timestamp(ts), s.entropy).String(),
		RoomID:    stored.ID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: ts,
		Seq:       int64(len(s.logs[stored.ID])) + 1,
	}
	s.logs[stored.ID] = append(s.logs[stored.ID], msg)
	s.mu.Unlock()

	s.hub.Notify(roomKey(stored.ID))
	s.hub.Notify(userKey(stored.Participants[0]))
	s.hub.Notify(userKey(stored.Participants[1]))
	return msg, nil
}

// Messages implements chat.Store.
func (s *Store) Messages(ctx context.Context, roomID string, limit int) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, chat.Unavailable("read messages", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[roomID]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	return slices.Clone(log), nil
}

// LastMessage implements chat.Store.
func (s *Store) LastMessage(ctx context.Context, roomID string) (*chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, chat.Unavailable("read last message", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[roomID]
	if len(log) == 0 {
		return nil, nil
	}
	last := log[len(log)-1]
	return &last, nil
}

// WatchRoom implements chat.Store.
func (s *Store) WatchRoom(ctx context.Context, roomID string) (<-chan struct{}, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, chat.Unavailable("watch room", err)
	}
	ch, release := s.hub.Listen(ctx, roomKey(roomID))
	return ch, release, nil
}

// WatchUser implements chat.Store.
func (s *Store) WatchUser(ctx context.Context, userID string) (<-chan struct{}, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, chat.Unavailable("watch user", err)
	}
	ch, release := s.hub.Listen(ctx, userKey(userID))
	return ch, release, nil
}

// Ping implements chat.Store.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
