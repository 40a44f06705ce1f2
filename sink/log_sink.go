package sink

import (
	"investor-lab/domain/event"
	"log/slog"
)

// LogSink writes one structured line per committed change.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(e event.InvestorsChanged) {
	s.log.Info("Investors changed",
		"kind", e.Kind,
		"id", e.Investor.ID,
		"name", e.Investor.Name,
		"count", len(e.Investors),
		"at", e.At,
	)
}
