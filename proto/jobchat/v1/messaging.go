// Package v1 defines the wire messages and gRPC service of jobchat.v1.
//
// Messages travel as JSON (content-subtype "json"); see codec.go.
package v1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type ResolveRoomRequest struct {
	JobId        string `json:"job_id,omitempty"`
	ParticipantA string `json:"participant_a,omitempty"`
	ParticipantB string `json:"participant_b,omitempty"`
}

func (x *ResolveRoomRequest) GetJobId() string {
	if x != nil {
		return x.JobId
	}
	return ""
}

func (x *ResolveRoomRequest) GetParticipantA() string {
	if x != nil {
		return x.ParticipantA
	}
	return ""
}

func (x *ResolveRoomRequest) GetParticipantB() string {
	if x != nil {
		return x.ParticipantB
	}
	return ""
}

type ResolveRoomResponse struct {
	RoomId string `json:"room_id,omitempty"`
}

func (x *ResolveRoomResponse) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

// EnsureRoomRequest opens the room between the caller and OtherUserId for a job.
type EnsureRoomRequest struct {
	JobId       string `json:"job_id,omitempty"`
	OtherUserId string `json:"other_user_id,omitempty"`
}

func (x *EnsureRoomRequest) GetJobId() string {
	if x != nil {
		return x.JobId
	}
	return ""
}

func (x *EnsureRoomRequest) GetOtherUserId() string {
	if x != nil {
		return x.OtherUserId
	}
	return ""
}

type Room struct {
	Id           string                 `json:"id,omitempty"`
	JobId        string                 `json:"job_id,omitempty"`
	Participants []string               `json:"participants,omitempty"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at,omitempty"`
}

func (x *Room) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Room) GetJobId() string {
	if x != nil {
		return x.JobId
	}
	return ""
}

func (x *Room) GetParticipants() []string {
	if x != nil {
		return x.Participants
	}
	return nil
}

func (x *Room) GetCreatedAt() *timestamppb.Timestamp {
	if x != nil {
		return x.CreatedAt
	}
	return nil
}

// SendMessageRequest appends Content to a room; the sender is the caller.
type SendMessageRequest struct {
	RoomId  string `json:"room_id,omitempty"`
	Content string `json:"content,omitempty"`
}

func (x *SendMessageRequest) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

func (x *SendMessageRequest) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

type Message struct {
	Id        string                 `json:"id,omitempty"`
	RoomId    string                 `json:"room_id,omitempty"`
	SenderId  string                 `json:"sender_id,omitempty"`
	Content   string                 `json:"content,omitempty"`
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
	Seq       int64                  `json:"seq,omitempty"`
}

func (x *Message) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Message) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

func (x *Message) GetSenderId() string {
	if x != nil {
		return x.SenderId
	}
	return ""
}

func (x *Message) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

func (x *Message) GetTimestamp() *timestamppb.Timestamp {
	if x != nil {
		return x.Timestamp
	}
	return nil
}

func (x *Message) GetSeq() int64 {
	if x != nil {
		return x.Seq
	}
	return 0
}

// GetHistoryRequest reads the newest Limit messages; 0 means the server default.
type GetHistoryRequest struct {
	RoomId string `json:"room_id,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
}

func (x *GetHistoryRequest) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

func (x *GetHistoryRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type GetHistoryResponse struct {
	Messages []*Message `json:"messages,omitempty"`
}

func (x *GetHistoryResponse) GetMessages() []*Message {
	if x != nil {
		return x.Messages
	}
	return nil
}

type SubscribeRequest struct {
	RoomId string `json:"room_id,omitempty"`
}

func (x *SubscribeRequest) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

// MessageSnapshot is the full ordered message list of a room.
type MessageSnapshot struct {
	RoomId   string     `json:"room_id,omitempty"`
	Messages []*Message `json:"messages,omitempty"`
}

func (x *MessageSnapshot) GetRoomId() string {
	if x != nil {
		return x.RoomId
	}
	return ""
}

func (x *MessageSnapshot) GetMessages() []*Message {
	if x != nil {
		return x.Messages
	}
	return nil
}

type WatchInboxRequest struct{}

type InboxEntry struct {
	Room             *Room                  `json:"room,omitempty"`
	OtherUserId      string                 `json:"other_user_id,omitempty"`
	OtherDisplayName string                 `json:"other_display_name,omitempty"`
	OtherAvatarUrl   string                 `json:"other_avatar_url,omitempty"`
	LastMessage      *Message               `json:"last_message,omitempty"`
	LastTimestamp    *timestamppb.Timestamp `json:"last_timestamp,omitempty"`
}

func (x *InboxEntry) GetRoom() *Room {
	if x != nil {
		return x.Room
	}
	return nil
}

func (x *InboxEntry) GetOtherUserId() string {
	if x != nil {
		return x.OtherUserId
	}
	return ""
}

func (x *InboxEntry) GetOtherDisplayName() string {
	if x != nil {
		return x.OtherDisplayName
	}
	return ""
}

func (x *InboxEntry) GetOtherAvatarUrl() string {
	if x != nil {
		return x.OtherAvatarUrl
	}
	return ""
}

func (x *InboxEntry) GetLastMessage() *Message {
	if x != nil {
		return x.LastMessage
	}
	return nil
}

func (x *InboxEntry) GetLastTimestamp() *timestamppb.Timestamp {
	if x != nil {
		return x.LastTimestamp
	}
	return nil
}

// InboxSnapshot lists the caller's conversations, most recent first.
type InboxSnapshot struct {
	Entries []*InboxEntry `json:"entries,omitempty"`
}

func (x *InboxSnapshot) GetEntries() []*InboxEntry {
	if x != nil {
		return x.Entries
	}
	return nil
}
