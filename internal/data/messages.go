package data

import (
	"context"
	"errors"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	// coll is reference to "messages" collection in MongoDB
	coll  *mongo.Collection
	rooms *RoomsStore
}

// NewMessagesStore returns a MessagesStore using given collection. Appends
// reserve their position through rooms.
func NewMessagesStore(coll *mongo.Collection, rooms *RoomsStore) *MessagesStore {
	return &MessagesStore{coll: coll, rooms: rooms}
}

// AppendMessage reserves the next sequence number of the room and inserts
// the message under it. A failed insert leaves a gap in the sequence but
// never a partial message.
func (m *MessagesStore) AppendMessage(ctx context.Context, room chat.Room, senderID, content string) (chat.Message, error) {
	slot, err := m.rooms.reserveSlot(ctx, room.ID)
	if err != nil {
		return chat.Message{}, err
	}

	doc := &messageDoc{
		RoomID:       slot.ID,
		Participants: slot.Participants,
		SenderID:     senderID,
		Content:      content,
		Timestamp:    slot.LastMessageAt.UTC(),
		Seq:          slot.Seq,
	}

	result, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return chat.Message{}, chat.Unavailable("insert message", err)
	}

	// Extract MongoDB's auto-generated _id
	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return chat.Message{}, chat.Corrupt("message", errors.New("inserted id is not an ObjectID"))
	}
	doc.ID = id
	return doc.toMessage()
}

// Messages returns the newest limit messages of a room (oldest→newest).
// limit <= 0 returns the whole log.
func (m *MessagesStore) Messages(ctx context.Context, roomID string, limit int) ([]chat.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	if limit > 0 {
		// newest first, then reversed below
		opts = options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}).SetLimit(int64(limit))
	}

	cursor, err := m.coll.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, chat.Unavailable("find messages", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, chat.Unavailable("decode messages", err)
	}

	msgs := make([]chat.Message, 0, len(docs))
	for i := range docs {
		msg, err := docs[i].toMessage()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if limit > 0 {
		slices.Reverse(msgs)
	}
	return msgs, nil
}

// LastMessage returns the newest message of a room, or nil if it has none.
func (m *MessagesStore) LastMessage(ctx context.Context, roomID string) (*chat.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})

	var doc messageDoc
	err := m.coll.FindOne(ctx, bson.M{"room_id": roomID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, chat.Unavailable("find last message", err)
	}

	msg, err := doc.toMessage()
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
