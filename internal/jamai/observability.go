package jamai

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// CallEvent records metadata about a single Action Table invocation.
type CallEvent struct {
	TableID   string
	RequestID string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about Action Table calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver writes call events through a structured logger.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates an Observer that logs events to log.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

func (o *ZapObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("table_id", event.TableID),
		zap.String("request_id", event.RequestID),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Bool("success", event.Success),
	}
	if event.ErrorCode != "" {
		fields = append(fields, zap.String("error_code", event.ErrorCode))
	}
	o.log.Info("jamai_call", fields...)
}

// LogObserver writes call events to an io.Writer, one line per call.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] jamai_call table=%s request=%s latency_ms=%d status=%s\n",
		ts, event.TableID, event.RequestID, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
