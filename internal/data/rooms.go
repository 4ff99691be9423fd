// Package data implements the chat store and the presence directory on MongoDB.
package data

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

// RoomsStore provides room database operations.
type RoomsStore struct {
	// coll is reference to "rooms" collection in MongoDB
	coll *mongo.Collection
}

// NewRoomsStore returns a RoomsStore using given collection.
func NewRoomsStore(coll *mongo.Collection) *RoomsStore {
	return &RoomsStore{coll: coll}
}

// ifNull keeps the stored value of field and falls back to v on insert.
func ifNull(field string, v any) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, v}}}
}

// literal stops ids that start with "$" from being read as field paths.
func literal(v any) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

// CreateRoomIfAbsent upserts the room without touching an existing record.
// created_at comes from the server clock ($$NOW) and is only ever set once.
func (r *RoomsStore) CreateRoomIfAbsent(ctx context.Context, room chat.Room) (chat.Room, bool, error) {
	// Pipeline update: every field keeps its stored value when present
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "job_id", Value: ifNull("job_id", literal(room.JobID))},
			{Key: "participants", Value: ifNull("participants", literal(bson.A{room.Participants[0], room.Participants[1]}))},
			{Key: "created_at", Value: ifNull("created_at", "$$NOW")},
			{Key: "seq", Value: ifNull("seq", int64(0))},
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": room.ID}, update, options.UpdateOne().SetUpsert(true))
	created := err == nil && res.UpsertedCount == 1
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return chat.Room{}, false, chat.Unavailable("upsert room", err)
	}
	// A duplicate key means a concurrent caller inserted the room first;
	// read back whatever is stored.

	stored, err := r.GetRoom(ctx, room.ID)
	if err != nil {
		return chat.Room{}, false, err
	}
	return stored, created, nil
}

// GetRoom finds a room by id.
func (r *RoomsStore) GetRoom(ctx context.Context, id string) (chat.Room, error) {
	var doc roomDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return chat.Room{}, chat.ErrRoomNotFound
		}
		return chat.Room{}, chat.Unavailable("find room", err)
	}
	return doc.toRoom()
}

// RoomsFor returns every room that lists userID as a participant.
func (r *RoomsStore) RoomsFor(ctx context.Context, userID string) ([]chat.Room, error) {
	// participants is an array; equality matches any element
	cursor, err := r.coll.Find(ctx, bson.M{"participants": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, chat.Unavailable("list rooms", err)
	}
	defer cursor.Close(ctx)

	var docs []roomDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, chat.Unavailable("decode rooms", err)
	}

	rooms := make([]chat.Room, 0, len(docs))
	for i := range docs {
		room, err := docs[i].toRoom()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// reserveSlot bumps the room's sequence counter and its last activity time
// in one atomic update and returns the room as it is afterwards. The
// timestamp is max(previous, server now), so it never goes backwards even
// if the server clock does.
func (r *RoomsStore) reserveSlot(ctx context.Context, roomID string) (*roomDoc, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "seq", Value: bson.D{{Key: "$add", Value: bson.A{ifNull("seq", int64(0)), int64(1)}}}},
			{Key: "last_message_at", Value: bson.D{{Key: "$max", Value: bson.A{"$last_message_at", "$$NOW"}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc roomDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": roomID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, chat.Unavailable("reserve message slot", err)
	}
	if _, err := doc.toRoom(); err != nil {
		return nil, err
	}
	if doc.LastMessageAt == nil || doc.Seq < 1 {
		return nil, chat.Corrupt(fmt.Sprintf("room %q", roomID), errors.New("sequence update not applied"))
	}
	return &doc, nil
}
