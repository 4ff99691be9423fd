// Package chat is the messaging core shared by candidates and employers:
// deterministic room identity, idempotent room creation, ordered room logs
// with live subscriptions, and a per-user inbox projection.
package chat

import "time"

// MaxContentLength is the longest message accepted, in runes.
const MaxContentLength = 4096

// Participants is the ordered pair of user ids stored on a room.
// The smaller id (byte-wise) always comes first.
type Participants [2]string

// Contains reports whether id is one of the pair.
func (p Participants) Contains(id string) bool {
	return id != "" && (p[0] == id || p[1] == id)
}

// Other returns the participant that is not id.
func (p Participants) Other(id string) (string, bool) {
	switch id {
	case "":
		return "", false
	case p[0]:
		return p[1], true
	case p[1]:
		return p[0], true
	}
	return "", false
}

// Room is a two-party conversation opened in the context of a job.
type Room struct {
	ID           string
	JobID        string
	Participants Participants
	CreatedAt    time.Time
}

// Message is one entry of a room log. Timestamp is assigned by the store and
// never decreases along Seq, the per-room append order.
type Message struct {
	ID        string
	RoomID    string
	SenderID  string
	Content   string
	Timestamp time.Time
	Seq       int64
}

// UserInfo is the display metadata of a user.
type UserInfo struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// InboxEntry is one row of a user's inbox. It is computed on demand and
// never stored.
type InboxEntry struct {
	Room               Room
	OtherParticipantID string
	Other              UserInfo
	LastMessage        *Message
	LastTimestamp      time.Time
}
