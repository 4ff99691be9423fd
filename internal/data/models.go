package data

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

// roomDoc maps to the rooms collection. _id is the resolved room id.
type roomDoc struct {
	ID            string     `bson:"_id" validate:"required"`
	JobID         string     `bson:"job_id" validate:"required"`
	Participants  []string   `bson:"participants" validate:"len=2,dive,required"`
	CreatedAt     time.Time  `bson:"created_at" validate:"required"`
	Seq           int64      `bson:"seq" validate:"gte=0"`
	LastMessageAt *time.Time `bson:"last_message_at,omitempty"`
}

// messageDoc maps to the messages collection. The room's participants are
// copied onto every message so inbox change streams can filter on them.
type messageDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	RoomID       string        `bson:"room_id" validate:"required"`
	Participants []string      `bson:"participants" validate:"len=2,dive,required"`
	SenderID     string        `bson:"sender_id" validate:"required"`
	Content      string        `bson:"content" validate:"required"`
	Timestamp    time.Time     `bson:"timestamp" validate:"required"`
	Seq          int64         `bson:"seq" validate:"gte=1"`
}

// userDoc maps to the users collection mirrored from the backend API.
type userDoc struct {
	ID       string `bson:"_id" validate:"required"`
	Username string `bson:"username"`
	Avatar   string `bson:"avatar"`
}

// schema validates documents read back from MongoDB. Anything that fails is
// reported as a corrupt record rather than handed to the core half-filled.
var schema = validator.New(validator.WithRequiredStructEnabled())

func (d *roomDoc) toRoom() (chat.Room, error) {
	if err := schema.Struct(d); err != nil {
		return chat.Room{}, chat.Corrupt(fmt.Sprintf("room %q", d.ID), err)
	}
	if d.Participants[0] >= d.Participants[1] {
		return chat.Room{}, chat.Corrupt(fmt.Sprintf("room %q", d.ID), fmt.Errorf("participants %v not in canonical order", d.Participants))
	}
	return chat.Room{
		ID:           d.ID,
		JobID:        d.JobID,
		Participants: chat.Participants{d.Participants[0], d.Participants[1]},
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

func (d *messageDoc) toMessage() (chat.Message, error) {
	if err := schema.Struct(d); err != nil {
		return chat.Message{}, chat.Corrupt(fmt.Sprintf("message %s", d.ID.Hex()), err)
	}
	return chat.Message{
		ID:        d.ID.Hex(),
		RoomID:    d.RoomID,
		SenderID:  d.SenderID,
		Content:   d.Content,
		Timestamp: d.Timestamp.UTC(),
		Seq:       d.Seq,
	}, nil
}

func (d *userDoc) toUserInfo() (chat.UserInfo, error) {
	if err := schema.Struct(d); err != nil {
		return chat.UserInfo{}, chat.Corrupt("user", err)
	}
	return chat.UserInfo{ID: d.ID, DisplayName: d.Username, AvatarURL: d.Avatar}, nil
}
