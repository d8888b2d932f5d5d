package stream

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/playback-gateway/internal/drive"
	"github.com/spec-kit/playback-gateway/internal/events"
)

// mirroredHeaders are the upstream response headers relayed to the
// client; they carry the range negotiation state the video element
// depends on for seeking.
var mirroredHeaders = []string{
	fiber.HeaderContentRange,
	fiber.HeaderAcceptRanges,
	fiber.HeaderContentLength,
	fiber.HeaderContentType,
	fiber.HeaderContentDisposition,
}

// Engine relays video bytes from the drive service to clients. Each
// call handles one playback session: a single upstream attempt whose
// status and range headers are mirrored before the body is piped
// through with bounded buffering. It never parses or alters range
// semantics; the drive owns those.
type Engine struct {
	drive      *drive.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEngine constructs the streaming proxy engine.
func NewEngine(driveClient *drive.Client, dispatcher events.Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{drive: driveClient, dispatcher: dispatcher, logger: logger}
}

// Stream proxies GET /api/stream/:id. The client's Range header, when
// present, travels upstream verbatim. Failure to connect surfaces as a
// 502 before any byte is written; once headers are committed, an
// upstream error can only terminate the connection.
func (e *Engine) Stream(c *fiber.Ctx, fileID string) error {
	rangeHeader := c.Get(fiber.HeaderRange)

	resp, err := e.drive.OpenDownload(c.Context(), fileID, rangeHeader)
	if err != nil {
		e.logger.Error("upstream connect failed",
			zap.String("file_id", fileID),
			zap.String("range", rangeHeader),
			zap.Error(err))
		e.publish(events.EventStreamFailed, fileID, events.StreamFailedPayload{Reason: "upstream unreachable"})
		return err
	}

	// Headers are committed here, exactly once; every outcome past this
	// point is expressed through the body stream or a connection reset.
	for _, name := range mirroredHeaders {
		if value := resp.Header.Get(name); value != "" {
			c.Set(name, value)
		}
	}
	c.Status(resp.StatusCode)

	e.publish(events.EventStreamStarted, fileID, events.StreamStartedPayload{
		Range:          rangeHeader,
		UpstreamStatus: resp.StatusCode,
	})

	body := &sessionBody{
		inner: resp.Body,
		finish: func(sent int64, cause error) {
			if cause == nil {
				e.publish(events.EventStreamCompleted, fileID, events.StreamCompletedPayload{BytesSent: sent})
				return
			}
			e.logger.Warn("stream aborted",
				zap.String("file_id", fileID),
				zap.Int64("bytes_sent", sent),
				zap.Error(cause))
			e.publish(events.EventStreamFailed, fileID, events.StreamFailedPayload{
				BytesSent: sent,
				Reason:    cause.Error(),
			})
		},
	}

	size := -1
	if resp.ContentLength >= 0 {
		size = int(resp.ContentLength)
	}
	c.Context().SetBodyStream(body, size)
	return nil
}

func (e *Engine) publish(eventType events.EventType, fileID string, payload interface{}) {
	if e.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		FileID:    fileID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := e.dispatcher.Publish(context.Background(), event); err != nil {
		e.logger.Warn("publish playback event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

// abortError marks sessions closed before the upstream signalled EOF,
// typically a client disconnect or seek.
type abortError struct{}

func (abortError) Error() string { return "session closed before upstream EOF" }

// sessionBody counts relayed bytes and reports the session outcome
// exactly once. The server closes it when the relay ends for any
// reason, which also releases the upstream connection.
type sessionBody struct {
	inner  io.ReadCloser
	sent   int64
	done   bool
	once   sync.Once
	finish func(sent int64, cause error)
}

func (b *sessionBody) Read(p []byte) (int, error) {
	n, err := b.inner.Read(p)
	b.sent += int64(n)
	switch {
	case err == io.EOF:
		b.done = true
		b.once.Do(func() { b.finish(b.sent, nil) })
	case err != nil:
		b.done = true
		b.once.Do(func() { b.finish(b.sent, err) })
	}
	return n, err
}

func (b *sessionBody) Close() error {
	if !b.done {
		b.once.Do(func() { b.finish(b.sent, abortError{}) })
	}
	return b.inner.Close()
}
