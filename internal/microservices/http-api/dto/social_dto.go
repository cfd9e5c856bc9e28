package dto

import "scenehub/internal/social"

// MembershipResponse is the state after a like/favourite write. Changed is false when the
// write was a no-op (already a member, or not one).
type MembershipResponse struct {
	SceneID   int64           `json:"scene_id"`
	Relation  social.Relation `json:"relation"`
	Member    bool            `json:"member"`
	Changed   bool            `json:"changed"`
	LikeCount *int            `json:"like_count,omitempty"`
}

type MembershipIDsResponse struct {
	Relation social.Relation `json:"relation"`
	Data     []int64         `json:"data"`
}

type CreateReportDTO struct {
	Reason string `json:"reason" binding:"required"`
}

type ReportStatusResponse struct {
	SceneID  int64 `json:"scene_id"`
	Reported bool  `json:"reported"`
}
