// ABOUTME: Telemetry sink — the seam to the separate token-telemetry pipeline spec.md says exists
// ABOUTME: but is explicitly out of scope for this core; LogSink is a placeholder, not that pipeline

package telemetry

import (
	"context"
	"log"

	"github.com/BumpyClock/doublefetch/internal/message"
)

// Sink is a seam for handing assembled messages on. The real
// token-telemetry pipeline is a separate subsystem; nothing in this repo
// calls Send, and the CLI prints messages as JSON instead.
type Sink interface {
	Send(ctx context.Context, msg message.Message) error
}

// LogSink logs each message instead of transmitting it anywhere. Useful
// for the CLI and for tests; not a stand-in for the real pipeline.
type LogSink struct {
	out *log.Logger
}

// NewLogSink wraps l, or the default std logger if l is nil.
func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = log.Default()
	}
	return &LogSink{out: l}
}

func (s *LogSink) Send(_ context.Context, msg message.Message) error {
	s.out.Printf("telemetry: action=%s ver=%d antiDuplicates=%d payload=%v",
		msg.Body.Action, msg.Body.Ver, msg.Body.AntiDuplicates, msg.Body.Payload)
	return nil
}
