package validation

import (
	"testing"

	"github.com/nfrund/wastewise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signInForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(signInForm{Email: "alice@example.com", Password: "secret"})
	assert.NoError(t, err)
}

func TestValidate_UsesFormFieldNames(t *testing.T) {
	err := Validate(signInForm{Email: "not-an-email"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "is required", fields["password"])
	assert.Equal(t, "Email must be a valid email address.", valErr.Message())
}

func TestValidate_ComplaintDraft(t *testing.T) {
	t.Run("empty description is rejected", func(t *testing.T) {
		err := Validate(domain.NewComplaintDraft())
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "is required", valErr.Fields()["description"])
		assert.Equal(t, "Description is required.", valErr.Message())
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		err := Validate(domain.ComplaintDraft{Type: "Noise", Description: "Loud truck"})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Fields()["type"], "Missed Collection")
	})

	t.Run("every category is accepted", func(t *testing.T) {
		for _, ct := range domain.ComplaintTypes {
			assert.NoError(t, Validate(domain.ComplaintDraft{Type: ct, Description: "x"}), ct)
		}
	})
}

func TestEcho_Validate(t *testing.T) {
	assert.Error(t, Echo{}.Validate(signInForm{}))
	assert.NoError(t, Echo{}.Validate(signInForm{Email: "a@b.co", Password: "p"}))
}
