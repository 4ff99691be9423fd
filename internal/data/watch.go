package data

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/db"
)

// Watcher turns MongoDB change streams into change signals.
type Watcher struct {
	db  *mongo.Database
	log zerolog.Logger
}

// NewWatcher returns a Watcher over the chat database.
func NewWatcher(database *mongo.Database, log zerolog.Logger) *Watcher {
	return &Watcher{db: database, log: log}
}

// WatchRoom signals after each message inserted into roomID.
func (w *Watcher) WatchRoom(ctx context.Context, roomID string) (<-chan struct{}, func(), error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "ns.coll", Value: db.MessagesCollection},
			{Key: "fullDocument.room_id", Value: roomID},
		}}},
	}
	return w.watch(ctx, "room", roomID, pipeline)
}

// WatchUser signals when a room listing userID is created or receives a
// message. Messages carry the participant pair, so both cases are plain
// inserts filtered on the same field.
func (w *Watcher) WatchUser(ctx context.Context, userID string) (<-chan struct{}, func(), error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "ns.coll", Value: bson.D{{Key: "$in", Value: bson.A{db.RoomsCollection, db.MessagesCollection}}}},
			{Key: "fullDocument.participants", Value: userID},
		}}},
	}
	return w.watch(ctx, "user", userID, pipeline)
}

// watch opens the stream before returning, so every change committed after
// the call is observed. release returns once the stream is closed on the
// server side.
func (w *Watcher) watch(ctx context.Context, kind, key string, pipeline mongo.Pipeline) (<-chan struct{}, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := w.db.Watch(ctx, pipeline)
	if err != nil {
		cancel()
		return nil, nil, chat.Unavailable("open change stream", err)
	}

	signals := make(chan struct{}, 1)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		defer close(signals)
		defer func() {
			if err := stream.Close(context.Background()); err != nil {
				w.log.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("closing change stream failed")
			}
		}()

		for stream.Next(ctx) {
			// Collapse bursts; the consumer rereads state anyway
			select {
			case signals <- struct{}{}:
			default:
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Str("kind", kind).Str("key", key).Msg("change stream failed")
		}
	}()

	release := func() {
		cancel()
		<-closed
	}
	return signals, release, nil
}
