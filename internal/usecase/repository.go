package usecase

import (
	"context"

	"heartrate-monitor/internal/domain"
)

// SummaryRepository holds the last completed session summary.
type SummaryRepository interface {
	SaveSummary(ctx context.Context, rec domain.SessionRecord) error
	LastSummary(ctx context.Context) (domain.SessionRecord, bool, error)
}

// Sink is the outbound half of a streaming channel. Send must return an
// error once the peer is gone.
type Sink interface {
	Send(ctx context.Context, msg domain.TickMessage) error
}
