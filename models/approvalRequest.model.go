package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Gated actions a child account can request.
const (
	RequestPublishProject = "publish_project"
	RequestShareContent   = "share_content"
	RequestJoinChallenge  = "join_challenge"
)

// ApprovalRequest gates a sensitive child action behind a parent decision.
// pending -> approved/rejected is a one-time transition.
type ApprovalRequest struct {
	gorm.Model
	ChildID        uint           `json:"child_id" gorm:"index;not null"`
	ParentID       *uint          `json:"parent_id"`
	RequestType    string         `json:"request_type" gorm:"not null"`
	RequestData    datatypes.JSON `json:"request_data"`
	Status         string         `json:"status" gorm:"default:'pending';index"`
	ReviewedAt     *time.Time     `json:"reviewed_at"`
	ReminderSentAt *time.Time     `json:"-"` // set by the reminder sweep
}
