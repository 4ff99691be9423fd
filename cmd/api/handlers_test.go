package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/auth"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{chat.ErrInvalidParticipants, codes.InvalidArgument},
		{chat.ErrMissingJobContext, codes.InvalidArgument},
		{chat.ErrEmptyMessage, codes.InvalidArgument},
		{chat.ErrMessageTooLong, codes.InvalidArgument},
		{chat.ErrRoomNotFound, codes.NotFound},
		{chat.ErrUserNotFound, codes.NotFound},
		{chat.ErrNotParticipant, codes.PermissionDenied},
		{chat.Unavailable("find room", errors.New("connection reset")), codes.Unavailable},
		{chat.Corrupt("room", errors.New("bad doc")), codes.Unavailable},
		{fmt.Errorf("wrapped: %w", context.Canceled), codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		if got := status.Code(toStatus(tt.err)); got != tt.want {
			t.Errorf("toStatus(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if toStatus(nil) != nil {
		t.Errorf("toStatus(nil) should be nil")
	}
}

func TestToStatus_HidesBackendDetails(t *testing.T) {
	err := toStatus(chat.Unavailable("find room", errors.New("mongo at 10.0.0.5 refused")))
	if msg := status.Convert(err).Message(); msg != chat.ErrStoreUnavailable.Error() {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestInboxToProto(t *testing.T) {
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	last := chat.Message{ID: "m1", RoomID: "J1_C1_E1", SenderID: "C1", Content: "hi", Timestamp: at, Seq: 1}
	entries := []chat.InboxEntry{{
		Room:               chat.Room{ID: "J1_C1_E1", JobID: "J1", Participants: chat.Participants{"C1", "E1"}, CreatedAt: at},
		OtherParticipantID: "E1",
		Other:              chat.UserInfo{ID: "E1", DisplayName: "Acme", AvatarURL: "https://cdn.example/e1.png"},
		LastMessage:        &last,
		LastTimestamp:      at,
	}}

	snap := inboxToProto(entries)
	if len(snap.GetEntries()) != 1 {
		t.Fatalf("expected one entry, got %d", len(snap.GetEntries()))
	}
	e := snap.GetEntries()[0]
	if e.GetRoom().GetId() != "J1_C1_E1" || e.GetOtherUserId() != "E1" || e.GetOtherDisplayName() != "Acme" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.GetLastMessage().GetContent() != "hi" || !e.GetLastTimestamp().AsTime().Equal(at) {
		t.Fatalf("unexpected last message: %+v", e.GetLastMessage())
	}
}

func TestAuthUnaryInterceptor(t *testing.T) {
	j := auth.NewJWTManager("test-secret", time.Minute)
	token, _, err := j.GenerateToken("C1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	interceptor := authUnaryInterceptor(j)
	info := &grpc.UnaryServerInfo{FullMethod: "/jobchat.v1.Messaging/SendMessage"}
	var seen string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		user, err := caller(ctx)
		seen = user
		return nil, err
	}

	tests := []struct {
		name string
		ctx  context.Context
		want codes.Code
	}{
		{"no metadata", context.Background(), codes.Unauthenticated},
		{"no header", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x", "y")), codes.Unauthenticated},
		{"empty bearer", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer ")), codes.Unauthenticated},
		{"garbage", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope")), codes.Unauthenticated},
		{"valid", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token)), codes.OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			_, err := interceptor(tt.ctx, nil, info, handler)
			if got := status.Code(err); got != tt.want {
				t.Fatalf("code = %v, want %v (%v)", got, tt.want, err)
			}
			if tt.want == codes.OK && seen != "C1" {
				t.Fatalf("handler saw caller %q", seen)
			}
		})
	}
}

func TestCaller_WithoutClaims(t *testing.T) {
	if _, err := caller(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}
