package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/cli/session"
)

const goodName = "Someone With A Long Enough Name"

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Message
}

func TestSignup(t *testing.T) {
	valid := Signup{Name: goodName, Email: "someone@example.com", Password: "Secret@12"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(f *Signup)
		want   string
	}{
		{"short name", func(f *Signup) { f.Name = "Too short" }, "Name must be between 20 and 60 characters"},
		{"long name", func(f *Signup) { f.Name = strings.Repeat("n", 61) }, "Name must be between 20 and 60 characters"},
		{"bad email", func(f *Signup) { f.Email = "not-an-email" }, "Please enter a valid email address"},
		{"short password", func(f *Signup) { f.Password = "Ab@1" }, "Password must be between 8 and 16 characters"},
		{"long password", func(f *Signup) { f.Password = "Abcdefghijklmnop@" }, "Password must be between 8 and 16 characters"},
		{"no uppercase", func(f *Signup) { f.Password = "secret@12" }, "Password must contain at least one uppercase letter"},
		{"no special", func(f *Signup) { f.Password = "Secret123" }, "Password must contain at least one special character"},
		{"long address", func(f *Signup) { f.Address = strings.Repeat("a", 401) }, "Address must not exceed 400 characters"},
		{"name reported before password", func(f *Signup) { f.Name = ""; f.Password = "" }, "Name must be between 20 and 60 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.modify(&f)
			assert.Equal(t, tt.want, messageOf(t, f.Validate()))
		})
	}
}

func TestSignup_AddressAtLimitIsFine(t *testing.T) {
	f := Signup{Name: goodName, Email: "someone@example.com", Password: "Secret@12", Address: strings.Repeat("a", 400)}
	assert.NoError(t, f.Validate())
}

func TestCreateUser_Role(t *testing.T) {
	f := CreateUser{Name: goodName, Email: "owner@example.com", Password: "Secret@12", Role: " Store_Owner "}
	require.NoError(t, f.Validate())
	assert.Equal(t, session.RoleStoreOwner, f.Request().Role)

	f.Role = "superuser"
	assert.Equal(t, "Please select a valid role", messageOf(t, f.Validate()))
}

func TestLogin(t *testing.T) {
	f := Login{Email: " ", Password: "x"}
	assert.Equal(t, "Email is required", messageOf(t, f.Validate()))

	f = Login{Email: "a@b.co"}
	assert.Equal(t, "Password is required", messageOf(t, f.Validate()))

	f = Login{Email: " a@b.co ", Password: "x"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "a@b.co", f.Email)
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name string
		form ChangePassword
		want string
	}{
		{"no current", ChangePassword{NewPassword: "Newpass@1", ConfirmPassword: "Newpass@1"}, "Current password is required"},
		{"short new", ChangePassword{CurrentPassword: "Old@1234", NewPassword: "N@1", ConfirmPassword: "N@1"}, "New password must be between 8 and 16 characters"},
		{"no upper", ChangePassword{CurrentPassword: "Old@1234", NewPassword: "newpass@1", ConfirmPassword: "newpass@1"}, "New password must contain at least one uppercase letter"},
		{"no special", ChangePassword{CurrentPassword: "Old@1234", NewPassword: "Newpass12", ConfirmPassword: "Newpass12"}, "New password must contain at least one special character"},
		{"mismatch", ChangePassword{CurrentPassword: "Old@1234", NewPassword: "Newpass@1", ConfirmPassword: "Newpass@2"}, "New passwords do not match"},
		{"unchanged", ChangePassword{CurrentPassword: "Same@1234", NewPassword: "Same@1234", ConfirmPassword: "Same@1234"}, "New password must be different from current password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageOf(t, tt.form.Validate()))
		})
	}

	ok := ChangePassword{CurrentPassword: "Old@1234", NewPassword: "Newpass@1", ConfirmPassword: "Newpass@1"}
	assert.NoError(t, ok.Validate())
}

func TestCreateStore(t *testing.T) {
	f := CreateStore{Name: "  ", Email: "shop@example.com", Address: "1 Main St", OwnerID: "o1"}
	assert.Equal(t, "Store name is required (max 100 characters)", messageOf(t, f.Validate()))

	f = CreateStore{Name: "Shop", Email: "shop@example.com", Address: "1 Main St"}
	assert.Equal(t, "Please select a store owner", messageOf(t, f.Validate()))

	f = CreateStore{Name: " Shop ", Email: "shop@example.com", Address: "1 Main St", OwnerID: "o1"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "Shop", f.Input().Name)
}

func TestRating(t *testing.T) {
	for _, stars := range []int{0, 6, -1} {
		f := Rating{StoreID: "s1", Rating: stars}
		assert.Equal(t, "Rating must be between 1 and 5", messageOf(t, f.Validate()), stars)
	}
	for stars := 1; stars <= 5; stars++ {
		f := Rating{StoreID: "s1", Rating: stars}
		assert.NoError(t, f.Validate(), stars)
	}

	f := Rating{Rating: 3}
	assert.Equal(t, "Store is required", messageOf(t, f.Validate()))

	f = Rating{StoreID: "s1", Rating: 3, Comment: strings.Repeat("c", 501)}
	assert.Equal(t, "Comment must not exceed 500 characters", messageOf(t, f.Validate()))
}
