package services

import (
	"errors"
	"fmt"

	apperrors "github.com/zamzam-app/feedback-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Form specific errors
	ErrFormNotFound        = errors.New("form not found")
	ErrFormAccessDenied    = errors.New("access denied to form")
	ErrFormNotDeletable    = errors.New("form cannot be deleted - has collected responses")
	ErrProtectedQuestion   = errors.New("protected question cannot be removed or retyped")
	ErrQuestionNotFound    = errors.New("question not found in form")
	ErrQuestionInvalidType = errors.New("invalid question type")

	// Review specific errors
	ErrReviewNotFound          = errors.New("review not found")
	ErrReviewFormMismatch      = errors.New("answers do not match the form definition")
	ErrComplaintNotFound       = errors.New("complaint not found")
	ErrComplaintAlreadyClosed  = errors.New("complaint is already resolved or dismissed")
	ErrComplaintAlreadyExists  = errors.New("complaint already open for this question")
	ErrComplaintInvalidStatus  = errors.New("invalid complaint status transition")

	// Outlet specific errors
	ErrOutletNotFound       = errors.New("outlet not found")
	ErrOutletHasReviews     = errors.New("outlet cannot be deleted - has collected reviews")
	ErrQRTokenNotFound      = errors.New("qr token not recognized")
	ErrOutletNoForm         = errors.New("outlet has no feedback form assigned")
	ErrInvalidCapability    = errors.New("unknown capability tag")

	// User/Permission errors
	ErrUserNotFound            = errors.New("user not found")
	ErrUserDuplicateEmail      = errors.New("email already registered")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Upload errors
	ErrUploadTicketExpired = errors.New("upload ticket has expired")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrComplaintNotFound) ||
		errors.Is(err, ErrOutletNotFound) ||
		errors.Is(err, ErrQRTokenNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrFormAccessDenied) ||
		errors.Is(err, ErrInsufficientPermissions) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrFormNotDeletable) ||
		errors.Is(err, ErrProtectedQuestion) ||
		errors.Is(err, ErrOutletHasReviews) ||
		errors.Is(err, ErrComplaintAlreadyClosed) ||
		errors.Is(err, ErrComplaintAlreadyExists) ||
		errors.Is(err, ErrUserDuplicateEmail)
}
