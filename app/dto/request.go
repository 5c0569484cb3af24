package dto

import (
	"github.com/aitp-labs/aitp-server/app/entity"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

func (r *RegisterRequest) Validate() error { return validate.Struct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return validate.Struct(r) }

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error { return validate.Struct(r) }

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

func (r *ResetPasswordRequest) Validate() error { return validate.Struct(r) }

type SaveItineraryRequest struct {
	Name        string                `json:"name" validate:"omitempty,max=120"`
	Country     string                `json:"country" validate:"required,max=100"`
	Duration    int                   `json:"duration" validate:"required,min=1,max=30"`
	TravelStyle string                `json:"travelStyle" validate:"required,max=50"`
	BudgetLevel string                `json:"budgetLevel" validate:"required,max=50"`
	Days        []entity.ItineraryDay `json:"days" validate:"required,min=1"`
}

func (r *SaveItineraryRequest) Validate() error { return validate.Struct(r) }

type GenerateItineraryRequest struct {
	Country     string `json:"country" validate:"required,max=100"`
	Days        int    `json:"days" validate:"required,min=1,max=30"`
	TravelStyle string `json:"travelStyle" validate:"required,max=50"`
	BudgetLevel string `json:"budgetLevel" validate:"required,max=50"`
}

func (r *GenerateItineraryRequest) Validate() error { return validate.Struct(r) }

// ValidationMessages flattens validator errors into one user-facing message
// per failed field.
func ValidationMessages(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid request body"}
	}

	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return messages
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "email":
		return "please provide a valid email address"
	case "min":
		if fieldErr.Kind().String() == "string" {
			return fieldErr.Field() + " must be at least " + fieldErr.Param() + " characters long"
		}
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		if fieldErr.Kind().String() == "string" {
			return fieldErr.Field() + " must be at most " + fieldErr.Param() + " characters long"
		}
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
