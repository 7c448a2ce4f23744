package usecase

import (
	"context"

	"heartrate-monitor/internal/domain"
)

type SessionService struct {
	summaries SummaryRepository
}

func NewSessionService(s SummaryRepository) *SessionService {
	return &SessionService{summaries: s}
}

func (s *SessionService) Save(ctx context.Context, rec domain.SessionRecord) error {
	return s.summaries.SaveSummary(ctx, rec)
}

func (s *SessionService) Last(ctx context.Context) (domain.SessionRecord, bool, error) {
	return s.summaries.LastSummary(ctx)
}
