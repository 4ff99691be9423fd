package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/metrics"
)

// RequestIDHeader is the metadata key carrying the request id. A client
// supplied value is kept; otherwise one is generated.
const RequestIDHeader = "x-request-id"

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDHeader); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

// LoggingUnaryInterceptor logs every unary call with its status code and
// latency, and records it in the RPC duration histogram. The request logger
// is attached to the context for handlers.
func LoggingUnaryInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		id := requestID(ctx)
		reqLog := log.With().Str("request_id", id).Str("method", info.FullMethod).Logger()
		// echo the id back; fails harmlessly outside a real transport
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))

		resp, err := handler(reqLog.WithContext(ctx), req)
		finish(reqLog, info.FullMethod, start, err)
		return resp, err
	}
}

// LoggingStreamInterceptor is the stream equivalent of LoggingUnaryInterceptor.
// Stream latency is the lifetime of the stream.
func LoggingStreamInterceptor(log zerolog.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		reqLog := log.With().Str("request_id", requestID(ss.Context())).Str("method", info.FullMethod).Logger()
		reqLog.Debug().Msg("stream opened")

		err := handler(srv, &WrappedStream{ServerStream: ss, Ctx: reqLog.WithContext(ss.Context())})
		finish(reqLog, info.FullMethod, start, err)
		return err
	}
}

func finish(log zerolog.Logger, method string, start time.Time, err error) {
	elapsed := time.Since(start)
	code := status.Code(err)
	metrics.RPCDuration.WithLabelValues(method, code.String()).Observe(elapsed.Seconds())

	var event *zerolog.Event
	if err != nil {
		event = log.Warn().Err(err)
	} else {
		event = log.Info()
	}
	event.Str("code", code.String()).Dur("latency", elapsed).Msg("rpc finished")
}

// WrappedStream overrides the context of a grpc.ServerStream.
type WrappedStream struct {
	grpc.ServerStream
	Ctx context.Context
}

// Context returns the wrapped context.
func (w *WrappedStream) Context() context.Context { return w.Ctx }
