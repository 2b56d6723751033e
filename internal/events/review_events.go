package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// EventType represents different types of feedback events
type EventType string

const (
	// Review events
	EventReviewSubmitted EventType = "review.submitted"
	EventReviewDeleted   EventType = "review.deleted"

	// Complaint events
	EventComplaintOpened   EventType = "complaint.opened"
	EventComplaintResolved EventType = "complaint.resolved"

	// Outlet events
	EventOutletRatingUpdated EventType = "outlet.rating_updated"
	EventQRTokenIssued       EventType = "outlet.qr_issued"
)

// Event is the base structure for all feedback events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "feedback-service"

// Review event payloads

type ReviewSubmittedEvent struct {
	ReviewID    uint      `json:"review_id"`
	FormID      uint      `json:"form_id"`
	OutletID    uint      `json:"outlet_id"`
	Rating      int       `json:"rating"`
	SubmittedBy string    `json:"submitted_by,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ReviewDeletedEvent struct {
	ReviewID  uint      `json:"review_id"`
	OutletID  uint      `json:"outlet_id"`
	DeletedBy string    `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Complaint event payloads

type ComplaintOpenedEvent struct {
	ComplaintID uint   `json:"complaint_id"`
	ReviewID    uint   `json:"review_id"`
	OutletID    uint   `json:"outlet_id"`
	QuestionID  string `json:"question_id"`
	Note        string `json:"note,omitempty"`
}

type ComplaintResolvedEvent struct {
	ComplaintID uint                   `json:"complaint_id"`
	ReviewID    uint                   `json:"review_id"`
	Status      models.ComplaintStatus `json:"status"`
	ResolvedBy  string                 `json:"resolved_by"`
	ResolvedAt  time.Time              `json:"resolved_at"`
}

// Outlet event payloads

type OutletRatingUpdatedEvent struct {
	OutletID    uint    `json:"outlet_id"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}

type QRTokenIssuedEvent struct {
	OutletID uint   `json:"outlet_id"`
	Token    string `json:"token"`
	IssuedBy string `json:"issued_by"`
}

// Event factory functions

func NewReviewSubmittedEvent(review *models.Review) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventReviewSubmitted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: ReviewSubmittedEvent{
			ReviewID:    review.ID,
			FormID:      review.FormID,
			OutletID:    review.OutletID,
			Rating:      review.Rating,
			SubmittedBy: review.SubmittedBy,
			SubmittedAt: review.SubmittedAt,
		},
	}
}

func NewReviewDeletedEvent(review *models.Review, deletedBy string) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventReviewDeleted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: ReviewDeletedEvent{
			ReviewID:  review.ID,
			OutletID:  review.OutletID,
			DeletedBy: deletedBy,
			DeletedAt: time.Now(),
		},
	}
}

func NewComplaintOpenedEvent(complaint *models.Complaint, outletID uint) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventComplaintOpened,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: ComplaintOpenedEvent{
			ComplaintID: complaint.ID,
			ReviewID:    complaint.ReviewID,
			OutletID:    outletID,
			QuestionID:  complaint.QuestionID,
			Note:        complaint.Note,
		},
	}
}

func NewComplaintResolvedEvent(complaint *models.Complaint, resolvedBy string) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventComplaintResolved,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: ComplaintResolvedEvent{
			ComplaintID: complaint.ID,
			ReviewID:    complaint.ReviewID,
			Status:      complaint.Status,
			ResolvedBy:  resolvedBy,
			ResolvedAt:  time.Now(),
		},
	}
}

func NewOutletRatingUpdatedEvent(outletID uint, avg float64, count int) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventOutletRatingUpdated,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: OutletRatingUpdatedEvent{
			OutletID:    outletID,
			RatingAvg:   avg,
			RatingCount: count,
		},
	}
}

func NewQRTokenIssuedEvent(outletID uint, token, issuedBy string) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventQRTokenIssued,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: QRTokenIssuedEvent{
			OutletID: outletID,
			Token:    token,
			IssuedBy: issuedBy,
		},
	}
}

// GenerateEventID returns a unique identifier for an event.
func GenerateEventID() string {
	return uuid.NewString()
}
