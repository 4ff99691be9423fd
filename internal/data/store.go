package data

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/db"
)

// Store implements chat.Store on MongoDB.
type Store struct {
	*RoomsStore
	*MessagesStore
	*Watcher

	client *db.Client
}

var _ chat.Store = (*Store)(nil)

// NewStore wires the room, message and change stream stores of client.
func NewStore(client *db.Client, log zerolog.Logger) *Store {
	rooms := NewRoomsStore(client.RoomsCollection())
	return &Store{
		RoomsStore:    rooms,
		MessagesStore: NewMessagesStore(client.MessagesCollection(), rooms),
		Watcher:       NewWatcher(client.Database(), log),
		client:        client,
	}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return chat.Unavailable("ping", err)
	}
	return nil
}
