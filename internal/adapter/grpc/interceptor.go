package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the original context.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if authHeaders[0] != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor attaches a request-scoped logger to the context and
// logs the outcome of every call. The request ID is taken from the
// x-request-id header when the caller sends one.
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := incomingRequestID(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", info.FullMethod).
			Logger()
		ctx = reqLogger.WithContext(ctx)

		// Not fatal outside a real transport stream
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, requestID))

		started := time.Now()
		resp, err := handler(ctx, req)

		event := reqLogger.Info()
		if err != nil {
			event = reqLogger.Warn().Err(err)
		}
		event.
			Str("code", status.Code(err).String()).
			Dur("duration", time.Since(started)).
			Msg("gRPC request")

		return resp, err
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if ids := md.Get(requestIDHeader); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
