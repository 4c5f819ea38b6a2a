package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/backoffice/internal/telemetry"
)

// RequestIDHeader carries a per-request id to the backend for log correlation.
const RequestIDHeader = "X-Request-Id"

// Setup builds the root logger. dev switches to debug level and a console writer.
func Setup(dev bool) zerolog.Logger {
	return New(os.Stderr, dev)
}

// New builds a logger writing to w.
func New(w io.Writer, dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Timestamp().Caller().Stack().Logger()
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

var _ http.RoundTripper = (*Requests)(nil)

// Requests is an http.RoundTripper that logs every backend call with its
// duration and tags it with a request id.
type Requests struct {
	logger zerolog.Logger
	next   http.RoundTripper
}

// NewRequests wraps next. A nil next uses http.DefaultTransport.
func NewRequests(logger zerolog.Logger, next http.RoundTripper) *Requests {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Requests{logger: logger, next: next}
}

func (r *Requests) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	ctx := r.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", requestID).
		Logger().WithContext(req.Context())

	resp, err := r.next.RoundTrip(req.WithContext(ctx))
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("backend call")
		telemetry.GetMetrics().RecordBackendRequest(ctx, req.Method, 0, time.Since(started))
		return resp, err
	}

	zerolog.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("backend call")
	telemetry.GetMetrics().RecordBackendRequest(ctx, req.Method, resp.StatusCode, time.Since(started))

	return resp, nil
}
