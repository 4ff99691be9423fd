package main

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	v1 "github.com/PaulBabatuyi/jobchat-gRPC/proto/jobchat/v1"
)

// toStatus maps core errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, chat.ErrInvalidParticipants),
		errors.Is(err, chat.ErrMissingJobContext),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, chat.ErrRoomNotFound), errors.Is(err, chat.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, chat.ErrNotParticipant):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, chat.ErrStoreUnavailable):
		// backend details stay in the server log
		return status.Error(codes.Unavailable, chat.ErrStoreUnavailable.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func roomToProto(r chat.Room) *v1.Room {
	return &v1.Room{
		Id:           r.ID,
		JobId:        r.JobID,
		Participants: []string{r.Participants[0], r.Participants[1]},
		CreatedAt:    timestamppb.New(r.CreatedAt),
	}
}

func messageToProto(m chat.Message) *v1.Message {
	return &v1.Message{
		Id:        m.ID,
		RoomId:    m.RoomID,
		SenderId:  m.SenderID,
		Content:   m.Content,
		Timestamp: timestamppb.New(m.Timestamp),
		Seq:       m.Seq,
	}
}

func messagesToProto(msgs []chat.Message) []*v1.Message {
	out := make([]*v1.Message, len(msgs))
	for i, m := range msgs {
		out[i] = messageToProto(m)
	}
	return out
}

func inboxToProto(entries []chat.InboxEntry) *v1.InboxSnapshot {
	snap := &v1.InboxSnapshot{Entries: make([]*v1.InboxEntry, len(entries))}
	for i, e := range entries {
		entry := &v1.InboxEntry{
			Room:             roomToProto(e.Room),
			OtherUserId:      e.OtherParticipantID,
			OtherDisplayName: e.Other.DisplayName,
			OtherAvatarUrl:   e.Other.AvatarURL,
			LastTimestamp:    timestamppb.New(e.LastTimestamp),
		}
		if e.LastMessage != nil {
			entry.LastMessage = messageToProto(*e.LastMessage)
		}
		snap.Entries[i] = entry
	}
	return snap
}
