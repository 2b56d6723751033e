package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintOpen      ComplaintStatus = "open"
	ComplaintResolved  ComplaintStatus = "resolved"
	ComplaintDismissed ComplaintStatus = "dismissed"
)

// Review is a persisted form response. Answers holds the capture-time
// response map keyed by question id; entry shapes follow the question
// type (string, []string, or int).
type Review struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	FormID   uint `json:"form_id" gorm:"not null;index"`
	OutletID uint `json:"outlet_id" gorm:"index"`

	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	// Rating is lifted from the protected rating question at submit
	// time so outlet aggregates never need to decode Answers.
	Rating int `json:"rating" gorm:"default:0"`

	SubmittedBy string         `json:"submitted_by" gorm:"size:100"`
	SubmittedAt time.Time      `json:"submitted_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Form       Form        `json:"-" gorm:"foreignKey:FormID"`
	Outlet     Outlet      `json:"-" gorm:"foreignKey:OutletID"`
	Complaints []Complaint `json:"complaints,omitempty" gorm:"foreignKey:ReviewID"`
}

// Complaint is a flagged answer requiring manager resolution, tracked
// per question within a review.
type Complaint struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ReviewID   uint            `json:"review_id" gorm:"not null;index"`
	QuestionID string          `json:"question_id" gorm:"not null;size:64"`
	Note       string          `json:"note" gorm:"type:text"`
	Status     ComplaintStatus `json:"status" gorm:"default:open;index" validate:"omitempty,oneof=open resolved dismissed"`
	ResolvedBy *string         `json:"resolved_by" gorm:"size:100"`
	ResolvedAt *time.Time      `json:"resolved_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (Complaint) TableName() string {
	return "complaints"
}
