package social

import (
	"context"
	"errors"
	"fmt"

	"scenehub/internal/shared"
)

var (
	ErrInvalidReason   = errors.New("invalid report reason")
	ErrAlreadyReported = errors.New("scene already reported")
)

// Reasons are the report reasons a user can pick from.
var Reasons = shared.ReportReasons

// ReportRemote files reports. CreateReport returns an error wrapping ErrAlreadyReported when the
// user has already reported the scene.
type ReportRemote interface {
	CreateReport(ctx context.Context, userID string, sceneID int64, reason string) error
	HasReported(ctx context.Context, userID string, sceneID int64) (bool, error)
}

// Reporter files reports as the identity of a Session.
type Reporter struct {
	remote  ReportRemote
	session *Session
}

func NewReporter(remote ReportRemote, session *Session) *Reporter {
	return &Reporter{remote: remote, session: session}
}

// Report files a report. It returns false without error when no user is signed in.
func (r *Reporter) Report(ctx context.Context, sceneID int64, reason string) (bool, error) {
	userID := r.session.UserID()
	if userID == "" {
		return false, nil
	}
	if !shared.ValidReportReason(reason) {
		return false, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}
	if err := r.remote.CreateReport(ctx, userID, sceneID, reason); err != nil {
		if errors.Is(err, ErrAlreadyReported) {
			return false, ErrAlreadyReported
		}
		return false, fmt.Errorf("report scene %d: %w", sceneID, err)
	}
	return true, nil
}

// HasReported is false for signed out sessions.
func (r *Reporter) HasReported(ctx context.Context, sceneID int64) (bool, error) {
	userID := r.session.UserID()
	if userID == "" {
		return false, nil
	}
	return r.remote.HasReported(ctx, userID, sceneID)
}
