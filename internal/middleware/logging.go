package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/metrics"
)

// LoggingInterceptor logs every RPC with its procedure, caller, result code
// and duration, and records the duration metric.
type LoggingInterceptor struct {
	metrics *metrics.Metrics
}

var _ connect.Interceptor = (*LoggingInterceptor)(nil)

// NewLoggingInterceptor creates a logging interceptor. m may be nil.
func NewLoggingInterceptor(m *metrics.Metrics) *LoggingInterceptor {
	return &LoggingInterceptor{metrics: m}
}

func (l *LoggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		l.log(ctx, req.Spec().Procedure, "RPC", start, err)
		return resp, err
	}
}

func (l *LoggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (l *LoggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		slog.Info("Stream opened",
			"procedure", conn.Spec().Procedure,
			"user_id", GetUserID(ctx),
			"org_id", GetTenantID(ctx),
		)
		err := next(ctx, conn)
		l.log(ctx, conn.Spec().Procedure, "Stream", start, err)
		return err
	}
}

func (l *LoggingInterceptor) log(ctx context.Context, procedure, kind string, start time.Time, err error) {
	elapsed := time.Since(start)
	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	l.metrics.RecordRPC(procedure, code, elapsed)

	attrs := []any{
		"procedure", procedure,
		"user_id", GetUserID(ctx),
		"org_id", GetTenantID(ctx),
		"duration_ms", elapsed.Milliseconds(),
	}

	if err == nil {
		slog.Info(kind+" ok", attrs...)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
		slog.Warn(kind+" error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
		return
	}
	slog.Error(kind+" error", append(attrs, "code", code, "error", err)...)
}
