package usecase

import (
	"context"
	"fmt"
	"time"

	"heartrate-monitor/internal/domain"
)

// EndReason tells why a stream stopped.
type EndReason string

const (
	EndCanceled   EndReason = "canceled"
	EndSendFailed EndReason = "send_failed"
)

// Result describes a finished stream.
type Result struct {
	Ticks     int
	Saved     bool
	Reason    EndReason
	SendErr   error
	StartedAt time.Time
	EndedAt   time.Time
}

// StreamService runs one streaming session per call to Run. Sessions share
// nothing but the value source and the summary repository.
type StreamService struct {
	source   domain.Sample
	sessions *SessionService
	interval time.Duration
	now      func() time.Time
	// OnTick, if set, is called after each delivered message.
	OnTick func(sessionID string, msg domain.TickMessage)
}

func NewStreamService(source domain.Sample, sessions *SessionService, interval time.Duration) *StreamService {
	if interval <= 0 {
		interval = time.Second
	}
	return &StreamService{source: source, sessions: sessions, interval: interval, now: time.Now}
}

// Run streams ticks to sink until ctx is canceled or a send fails, then
// stores the session summary when at least one reading was generated.
// A failed send ends the session like a disconnect; its reading is kept.
// The returned error is non-nil only when the summary could not be stored.
func (s *StreamService) Run(ctx context.Context, sessionID string, sink Sink) (Result, error) {
	res := Result{StartedAt: s.now().UTC(), Reason: EndCanceled}
	var readings []domain.Reading

loop:
	for tick := 0; ; tick++ {
		if ctx.Err() != nil {
			break
		}
		r := domain.Reading{Tick: tick, Value: s.source.Next()}
		readings = append(readings, r)
		msg := domain.NewTickMessage(r, domain.ComputeAggregates(readings), s.now())
		if err := sink.Send(ctx, msg); err != nil {
			if ctx.Err() == nil {
				res.Reason = EndSendFailed
				res.SendErr = err
			}
			break
		}
		if s.OnTick != nil {
			s.OnTick(sessionID, msg)
		}

		wait := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			break loop
		case <-wait.C:
		}
	}

	res.EndedAt = s.now().UTC()
	res.Ticks = len(readings)
	if len(readings) == 0 {
		return res, nil
	}
	summary, err := domain.BuildSummary(readings, res.StartedAt, res.EndedAt)
	if err != nil {
		return res, fmt.Errorf("build summary: %w", err)
	}
	// ctx is usually canceled by now; the write must still happen
	rec := domain.SessionRecord{SessionID: sessionID, SavedAt: res.EndedAt, Summary: summary}
	if err := s.sessions.Save(context.WithoutCancel(ctx), rec); err != nil {
		return res, fmt.Errorf("save summary: %w", err)
	}
	res.Saved = true
	return res, nil
}
