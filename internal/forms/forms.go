// Package forms validates user-submitted input before anything is persisted.
// Validation failures produce field-level messages and leave no side effects.
package forms

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldErrors maps a form field name to a human readable message.
type FieldErrors map[string]string

// PostForm is the input for creating or editing a post.
type PostForm struct {
	Text  string `json:"text" validate:"required"`
	Group string `json:"group" validate:"omitempty,uuid"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

// CommentForm is the input for adding a comment to a post.
type CommentForm struct {
	Text string `json:"text" validate:"required"`
}

// GroupForm is the input for creating a group. Slug is optional; a missing
// slug is derived from the title.
type GroupForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=50"`
	Description string `json:"description"`
}

// Validate checks the form and returns field-level errors, or nil when valid.
func (f *PostForm) Validate() FieldErrors {
	return checkStruct(f)
}

// GroupID parses the optional group reference. It returns nil when no group
// was submitted; existence of the group is checked against the store by the
// caller.
func (f *PostForm) GroupID() *uuid.UUID {
	if f.Group == "" {
		return nil
	}
	id, err := uuid.Parse(f.Group)
	if err != nil {
		return nil
	}
	return &id
}

// ImageRef returns the optional image reference, nil when absent.
func (f *PostForm) ImageRef() *string {
	if f.Image == "" {
		return nil
	}
	return &f.Image
}

func (f *CommentForm) Validate() FieldErrors {
	return checkStruct(f)
}

func (f *GroupForm) Validate() FieldErrors {
	return checkStruct(f)
}

func checkStruct(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": err.Error()}
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		fieldErrors[field] = message(field, e)
	}
	return fieldErrors
}

// message builds a friendly error text for a validation tag.
func message(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The field '%s' is required.", field)
	case "uuid":
		return fmt.Sprintf("The field '%s' must be a valid UUID.", field)
	case "max":
		return fmt.Sprintf("The field '%s' must be no longer than %s characters.", field, e.Param())
	default:
		return fmt.Sprintf("The field '%s' is invalid.", field)
	}
}
