package memory

import (
	"context"
	"sync"

	"heartrate-monitor/internal/domain"
)

// Store holds the most recently completed session summary. Capacity is one:
// every write replaces the previous record.
type Store struct {
	mu   sync.RWMutex
	last *domain.SessionRecord
}

func NewStore() *Store {
	return &Store{}
}

// SummaryRepository
func (s *Store) SaveSummary(ctx context.Context, rec domain.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := cloneRecord(rec)
	s.mu.Lock()
	s.last = &cp
	s.mu.Unlock()
	return nil
}

func (s *Store) LastSummary(ctx context.Context) (domain.SessionRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionRecord{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.SessionRecord{}, false, nil
	}
	return cloneRecord(*s.last), true, nil
}

// cloneRecord copies the slices and the period so callers cannot mutate the slot.
func cloneRecord(rec domain.SessionRecord) domain.SessionRecord {
	out := rec
	sum := rec.Summary
	if sum.Category != nil {
		out.Summary.Category = append([]domain.CodeableConcept(nil), sum.Category...)
	}
	out.Summary.Code.Coding = append([]domain.Coding(nil), sum.Code.Coding...)
	if sum.Component != nil {
		out.Summary.Component = append([]domain.Component(nil), sum.Component...)
	}
	if sum.Extension != nil {
		out.Summary.Extension = append([]domain.Extension(nil), sum.Extension...)
	}
	if sum.EffectivePeriod != nil {
		p := *sum.EffectivePeriod
		out.Summary.EffectivePeriod = &p
	}
	return out
}
