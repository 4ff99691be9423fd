package main

import (
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	v1 "github.com/PaulBabatuyi/jobchat-gRPC/proto/jobchat/v1"
)

// History limits applied when GetHistory asks for none or too many.
const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Server implements the Messaging service on top of the chat core.
type Server struct {
	v1.UnimplementedMessagingServer

	svc *chat.Service
	log zerolog.Logger
}

// newServer returns a ready-to-use Server.
func newServer(svc *chat.Service, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// registerService registers the Messaging service on the given gRPC server.
func registerService(s *grpc.Server, srv *Server) {
	v1.RegisterMessagingServer(s, srv)
}
