// Package glossary persists reusable term lists in SQLite.
//
// A term is a known correct spelling; when it carries a replacement the
// term is the misspelling and the replacement is what it becomes.
package glossary

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound  = errors.New("glossary: not found")
	ErrDuplicate = errors.New("glossary: already exists")
	ErrInvalid   = errors.New("glossary: invalid input")
)

type List struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Term struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	Term        string    `json:"term"`
	Replacement string    `json:"replacement,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type TermInput struct {
	Term        string `json:"term" validate:"required,max=200"`
	Replacement string `json:"replacement" validate:"omitempty,max=200,nefield=Term"`
	Note        string `json:"note" validate:"omitempty,max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// json tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return &ValidationError{Fields: msgs}
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "glossary: invalid input: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
