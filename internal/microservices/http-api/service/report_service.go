package service

import (
	"context"
	"errors"
	"fmt"

	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
)

type ReportService interface {
	Report(ctx context.Context, userID, username string, sceneID int64, reason string) error
	HasReported(ctx context.Context, userID string, sceneID int64) (bool, error)
	Reasons() []string
}

type reportService struct {
	reports repository.ReportRepository
	scenes  repository.SceneRepository
	users   repository.UserRepository
}

func NewReportService(reports repository.ReportRepository, scenes repository.SceneRepository, users repository.UserRepository) ReportService {
	return &reportService{reports: reports, scenes: scenes, users: users}
}

// Report files a report. A second report by the same user for the same scene fails with
// ErrAlreadyReported.
func (s *reportService) Report(ctx context.Context, userID, username string, sceneID int64, reason string) error {
	if !shared.ValidReportReason(reason) {
		return invalid("unknown report reason %q", reason)
	}
	ok, err := s.scenes.Exists(ctx, sceneID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("scene %w", ErrNotFound)
	}
	if err := s.users.EnsureProfile(ctx, userID, username); err != nil {
		return err
	}

	err = s.reports.Create(ctx, &models.Report{UserID: userID, SceneID: sceneID, Reason: reason})
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyReported
	}
	return notFound(err, "scene")
}

func (s *reportService) HasReported(ctx context.Context, userID string, sceneID int64) (bool, error) {
	return s.reports.Exists(ctx, userID, sceneID)
}

func (s *reportService) Reasons() []string {
	out := make([]string, len(shared.ReportReasons))
	copy(out, shared.ReportReasons)
	return out
}
