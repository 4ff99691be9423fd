package main

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/auth"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	v1 "github.com/PaulBabatuyi/jobchat-gRPC/proto/jobchat/v1"
)

// caller returns the authenticated user id injected by the auth interceptors.
func caller(ctx context.Context) (string, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "missing auth claims")
	}
	return claims.UserID, nil
}

// ResolveRoom computes the room id of a job and participant pair without any I/O.
func (s *Server) ResolveRoom(ctx context.Context, req *v1.ResolveRoomRequest) (*v1.ResolveRoomResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	id, err := chat.ResolveRoomID(req.GetJobId(), req.GetParticipantA(), req.GetParticipantB())
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1.ResolveRoomResponse{RoomId: id}, nil
}

// EnsureRoom opens (or returns) the room between the caller and another user.
func (s *Server) EnsureRoom(ctx context.Context, req *v1.EnsureRoomRequest) (*v1.Room, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	room, err := s.svc.EnsureRoom(ctx, req.GetJobId(), user, req.GetOtherUserId())
	if err != nil {
		return nil, toStatus(err)
	}
	return roomToProto(room), nil
}

// SendMessage appends a message from the caller to a room.
func (s *Server) SendMessage(ctx context.Context, req *v1.SendMessageRequest) (*v1.Message, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := s.svc.Append(ctx, req.GetRoomId(), user, req.GetContent())
	if err != nil {
		return nil, toStatus(err)
	}
	return messageToProto(msg), nil
}

// GetHistory returns the latest messages of a room the caller belongs to.
func (s *Server) GetHistory(ctx context.Context, req *v1.GetHistoryRequest) (*v1.GetHistoryResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.svc.RoomFor(ctx, req.GetRoomId(), user); err != nil {
		return nil, toStatus(err)
	}

	limit := int(req.GetLimit())
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	msgs, err := s.svc.History(ctx, req.GetRoomId(), limit)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1.GetHistoryResponse{Messages: messagesToProto(msgs)}, nil
}

// Subscribe streams a full snapshot of the room log now and after every change.
func (s *Server) Subscribe(req *v1.SubscribeRequest, stream v1.Messaging_SubscribeServer) error {
	ctx := stream.Context()
	user, err := caller(ctx)
	if err != nil {
		return err
	}
	room, err := s.svc.RoomFor(ctx, req.GetRoomId(), user)
	if err != nil {
		return toStatus(err)
	}

	sendErr := make(chan error, 1)
	sub, err := s.svc.Subscribe(ctx, room.ID, func(msgs []chat.Message) {
		snap := &v1.MessageSnapshot{RoomId: room.ID, Messages: messagesToProto(msgs)}
		if err := stream.Send(snap); err != nil {
			select {
			case sendErr <- err:
			default:
			}
		}
	})
	if err != nil {
		return toStatus(err)
	}
	// no Send happens after Cancel returns
	defer sub.Cancel()

	return s.waitStream(ctx, sub, sendErr)
}

// WatchInbox streams the caller's inbox now and after every change.
func (s *Server) WatchInbox(req *v1.WatchInboxRequest, stream v1.Messaging_WatchInboxServer) error {
	ctx := stream.Context()
	user, err := caller(ctx)
	if err != nil {
		return err
	}

	sendErr := make(chan error, 1)
	sub, err := s.svc.WatchInbox(ctx, user, func(entries []chat.InboxEntry) {
		if err := stream.Send(inboxToProto(entries)); err != nil {
			select {
			case sendErr <- err:
			default:
			}
		}
	})
	if err != nil {
		return toStatus(err)
	}
	defer sub.Cancel()

	return s.waitStream(ctx, sub, sendErr)
}

// waitStream blocks until the client goes away, a send fails or the
// subscription ends on its own (backend listener lost).
func (s *Server) waitStream(ctx context.Context, sub *chat.Subscription, sendErr <-chan error) error {
	select {
	case <-ctx.Done():
		return status.FromContextError(ctx.Err()).Err()
	case err := <-sendErr:
		s.log.Debug().Err(err).Msg("dropping stream after failed send")
		return status.Errorf(codes.Unavailable, "failed to send snapshot: %v", err)
	case <-sub.Done():
		if ctx.Err() != nil {
			return status.FromContextError(ctx.Err()).Err()
		}
		return status.Errorf(codes.Unavailable, "live feed ended")
	}
}
