package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Client-side errors (bad input, denied access) log at warn, server faults at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := CallerFrom(ctx).UserID // empty if pre-auth

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				slog.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			code := connect.CodeOf(err)
			var connectErr *connect.Error
			msg := err.Error()
			if errors.As(err, &connectErr) {
				msg = connectErr.Message()
			}
			level := slog.LevelWarn
			if code == connect.CodeInternal || code == connect.CodeUnknown {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "RPC error",
				"procedure", procedure,
				"code", code,
				"error", msg,
				"user_id", userID,
				"duration_ms", duration,
			)
			return resp, err
		}
	}
}
