package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zamzam-app/feedback-service/internal/models"
)

// Validator is the main validator instance that combines struct tag
// validation with form shape validation.
type Validator struct {
	structValidator *validator.Validate
	formValidator   *FormValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		formValidator:   NewFormValidator(),
	}
}

// ValidateStruct validates struct tags only, converting failures to
// the shared ValidationErrors type.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if verrs := ToValidationErrors(err); len(verrs) > 0 {
			return verrs
		}
		return err
	}
	return nil
}

// Validate performs complete validation (struct tags, then form shape
// when the value carries questions)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	switch t := s.(type) {
	case *models.Form:
		if errs := v.formValidator.ValidateQuestions(t.Questions); len(errs) > 0 {
			return errs
		}
	case models.Form:
		if errs := v.formValidator.ValidateQuestions(t.Questions); len(errs) > 0 {
			return errs
		}
	}

	return nil
}

// Form returns the form shape validator
func (v *Validator) Form() *FormValidator {
	return v.formValidator
}

// GetFormValidator returns the form shape validator (compatibility method)
func (v *Validator) GetFormValidator() *FormValidator {
	return v.formValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Question type validation
	validate.RegisterValidation("question_type", validateQuestionType)

	// Rating scale validation
	validate.RegisterValidation("max_rating", validateMaxRating)

	// User role validation
	validate.RegisterValidation("user_role", validateUserRole)

	// Outlet capability validation
	validate.RegisterValidation("capability_tag", validateCapabilityTag)

	// Complaint status validation
	validate.RegisterValidation("complaint_status", validateComplaintStatus)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.ShortAnswer,
		models.Paragraph,
		models.MultipleChoice,
		models.Checkbox,
		models.Rating,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateMaxRating(fl validator.FieldLevel) bool {
	switch fl.Field().Int() {
	case 3, 5, 10:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStaff,
		models.RoleManager,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateCapabilityTag(fl validator.FieldLevel) bool {
	validTags := []models.CapabilityTag{
		models.CapabilityStore,
		models.CapabilityCafe,
		models.CapabilityKiosk,
	}

	value := fl.Field().String()
	for _, validTag := range validTags {
		if string(validTag) == value {
			return true
		}
	}
	return false
}

func validateComplaintStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ComplaintStatus{
		models.ComplaintOpen,
		models.ComplaintResolved,
		models.ComplaintDismissed,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}
