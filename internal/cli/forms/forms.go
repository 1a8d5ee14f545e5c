// Package forms validates user input before anything is sent to the API. Each form
// reports only its first problem, worded the way the screen shows it.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/session"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	specialChars = `!@#$%^&*(),.?":{}|<>`
)

// ValidationError is the first rule a form broke
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterRules(v)
	return v
}

// RegisterRules adds the platform's custom tags to v: hasupper, hasspecial and role.
// The dev API registers them on gin's validator so both ends apply the same rules.
func RegisterRules(v *validator.Validate) {
	v.RegisterValidation("hasupper", func(fl validator.FieldLevel) bool {
		return strings.ContainsAny(fl.Field().String(), upperLetters)
	})
	v.RegisterValidation("hasspecial", func(fl validator.FieldLevel) bool {
		return strings.ContainsAny(fl.Field().String(), specialChars)
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return session.Role(fl.Field().String()).Valid()
	})
}

// messages maps "Field.tag" (or just "Field") to the text shown to the user
type messages map[string]string

func (m messages) lookup(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func check(form any, m messages) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate form: %w", err)
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: m.lookup(fe)}
}

var passwordMessages = messages{
	"Password.min":        "Password must be between 8 and 16 characters",
	"Password.max":        "Password must be between 8 and 16 characters",
	"Password.hasupper":   "Password must contain at least one uppercase letter",
	"Password.hasspecial": "Password must contain at least one special character",
}

var profileMessages = merge(messages{
	"Name":           "Name must be between 20 and 60 characters",
	"Email.required": "Email is required",
	"Email.email":    "Please enter a valid email address",
	"Address":        "Address must not exceed 400 characters",
	"Role":           "Please select a valid role",
}, passwordMessages)

func merge(ms ...messages) messages {
	out := messages{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Login is the login form
type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate trims the email and checks both fields are present
func (f *Login) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, messages{
		"Email.required": "Email is required",
		"Email.email":    "Please enter a valid email address",
		"Password":       "Password is required",
	})
}

// Signup is the self-registration form
type Signup struct {
	Name     string `validate:"min=20,max=60"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=8,max=16,hasupper,hasspecial"`
	Address  string `validate:"max=400"`
}

// Validate checks the signup rules
func (f *Signup) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, profileMessages)
}

// Request converts the form to an API request
func (f Signup) Request() client.SignupRequest {
	return client.SignupRequest{Name: f.Name, Email: f.Email, Password: f.Password, Address: f.Address}
}

// CreateUser is the admin's account creation form
type CreateUser struct {
	Name     string `validate:"min=20,max=60"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=8,max=16,hasupper,hasspecial"`
	Address  string `validate:"max=400"`
	Role     string `validate:"role"`
}

// Validate checks the account rules plus the role
func (f *CreateUser) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(strings.ToLower(f.Role))
	return check(f, profileMessages)
}

// Request converts the form to an API request
func (f CreateUser) Request() client.CreateUserRequest {
	return client.CreateUserRequest{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Address:  f.Address,
		Role:     session.Role(f.Role),
	}
}

// ChangePassword is the password change form
type ChangePassword struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"min=8,max=16,hasupper,hasspecial"`
	ConfirmPassword string `validate:"eqfield=NewPassword,nefield=CurrentPassword"`
}

// Validate checks the new password rules, the confirmation and that it changed
func (f *ChangePassword) Validate() error {
	return check(f, messages{
		"CurrentPassword":         "Current password is required",
		"NewPassword.hasupper":    "New password must contain at least one uppercase letter",
		"NewPassword.hasspecial":  "New password must contain at least one special character",
		"NewPassword":             "New password must be between 8 and 16 characters",
		"ConfirmPassword.eqfield": "New passwords do not match",
		"ConfirmPassword.nefield": "New password must be different from current password",
	})
}

// CreateStore is the admin's store creation form
type CreateStore struct {
	Name        string `validate:"required,max=100"`
	Email       string `validate:"required,email"`
	Address     string `validate:"required,max=400"`
	Description string `validate:"max=1000"`
	OwnerID     string `validate:"required"`
}

// Validate trims the text fields and checks the store rules
func (f *CreateStore) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	return check(f, messages{
		"Name":           "Store name is required (max 100 characters)",
		"Email.required": "Store email is required",
		"Email.email":    "Please enter a valid store email",
		"Address":        "Address is required (max 400 characters)",
		"Description":    "Description must not exceed 1000 characters",
		"OwnerID":        "Please select a store owner",
	})
}

// Input converts the form to an API request
func (f CreateStore) Input() client.StoreInput {
	return client.StoreInput{
		Name:        f.Name,
		Email:       f.Email,
		Address:     f.Address,
		Description: f.Description,
		OwnerID:     f.OwnerID,
	}
}

// Rating is a star rating with an optional comment
type Rating struct {
	StoreID string `validate:"required"`
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"max=500"`
}

// Validate checks the rating is 1 to 5 stars
func (f *Rating) Validate() error {
	f.StoreID = strings.TrimSpace(f.StoreID)
	return check(f, messages{
		"StoreID": "Store is required",
		"Rating":  "Rating must be between 1 and 5",
		"Comment": "Comment must not exceed 500 characters",
	})
}

// Input converts the form to an API request
func (f Rating) Input() client.RatingInput {
	return client.RatingInput{StoreID: f.StoreID, Rating: f.Rating, Comment: f.Comment}
}
