package models

import (
	"time"

	"gorm.io/gorm"
)

// ParentChildLink records a verified family relationship. Approval
// resolution requires a link between the resolving parent and the child.
type ParentChildLink struct {
	gorm.Model
	ParentID uint      `json:"parent_id" gorm:"index;not null"`
	ChildID  uint      `json:"child_id" gorm:"index;not null"`
	LinkedAt time.Time `json:"linked_at" gorm:"autoCreateTime"`
}
