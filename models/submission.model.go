package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission lifecycle. Graded is terminal for student-initiated transitions.
const (
	SubmissionNotStarted = "not_started"
	SubmissionInProgress = "in_progress"
	SubmissionSubmitted  = "submitted"
	SubmissionGraded     = "graded"
)

// Submission is a student's attempt record for one assignment. At most one
// row exists per (assignment_id, student_id).
type Submission struct {
	gorm.Model
	AssignmentID uint           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_assignment_student"`
	StudentID    uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_submission_assignment_student"`
	Status       string         `json:"status" gorm:"default:'not_started'"`
	SubmittedAt  *time.Time     `json:"submitted_at"`
	GradedAt     *time.Time     `json:"graded_at"`
	Feedback     string         `json:"feedback" gorm:"default:''"`
	XPAwarded    int            `json:"xp_awarded" gorm:"default:0"` // last award; re-grades apply the delta against this
	FileURLs     datatypes.JSON `json:"file_urls"`                   // ordered storage keys, upload order
}

// FileList decodes the ordered attachment keys. A missing or malformed
// column decodes to an empty list.
func (s *Submission) FileList() []string {
	var urls []string
	if len(s.FileURLs) > 0 {
		_ = json.Unmarshal(s.FileURLs, &urls)
	}
	return urls
}

// SetFileList encodes the ordered attachment keys.
func (s *Submission) SetFileList(urls []string) {
	data, _ := json.Marshal(urls)
	s.FileURLs = datatypes.JSON(data)
}
