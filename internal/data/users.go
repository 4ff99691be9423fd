package data

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

// UsersStore reads display metadata mirrored into the users collection.
// It implements chat.Directory.
type UsersStore struct {
	// coll is reference to "users" collection in MongoDB
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using given collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// DisplayInfo finds a user's display name and avatar.
func (u *UsersStore) DisplayInfo(ctx context.Context, userID string) (chat.UserInfo, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return chat.UserInfo{}, chat.ErrUserNotFound
		}
		return chat.UserInfo{}, chat.Unavailable("find user", err)
	}
	return doc.toUserInfo()
}

// SaveUser creates or replaces a user's display metadata.
func (u *UsersStore) SaveUser(ctx context.Context, info chat.UserInfo) error {
	doc := userDoc{ID: info.ID, Username: info.DisplayName, Avatar: info.AvatarURL}
	if err := schema.Struct(&doc); err != nil {
		return err
	}

	_, err := u.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return chat.Unavailable("save user", err)
	}
	return nil
}
