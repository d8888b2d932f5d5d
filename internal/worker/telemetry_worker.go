package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/playback-gateway/internal/events"
	"github.com/spec-kit/playback-gateway/internal/observability"
)

// StartTelemetryWorker subscribes playback-event consumers that log
// session outcomes and feed the stream counters.
func StartTelemetryWorker(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	dispatcher.Subscribe(events.EventStreamStarted, func(_ context.Context, event events.Event) error {
		payload, _ := event.Payload.(events.StreamStartedPayload)
		logger.Info("stream started",
			zap.String("file_id", event.FileID),
			zap.String("range", payload.Range),
			zap.Int("upstream_status", payload.UpstreamStatus),
		)
		return nil
	})

	dispatcher.Subscribe(events.EventStreamCompleted, func(_ context.Context, event events.Event) error {
		payload, _ := event.Payload.(events.StreamCompletedPayload)
		metrics.RecordStream("completed", payload.BytesSent)
		logger.Info("stream completed",
			zap.String("file_id", event.FileID),
			zap.Int64("bytes_sent", payload.BytesSent),
		)
		return nil
	})

	dispatcher.Subscribe(events.EventStreamFailed, func(_ context.Context, event events.Event) error {
		payload, _ := event.Payload.(events.StreamFailedPayload)
		metrics.RecordStream("failed", payload.BytesSent)
		logger.Warn("stream failed",
			zap.String("file_id", event.FileID),
			zap.Int64("bytes_sent", payload.BytesSent),
			zap.String("reason", payload.Reason),
		)
		return nil
	})
}
