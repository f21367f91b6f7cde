package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"omitempty,is-user-role"`
	Rank       string `json:"rank" validate:"omitempty,is-user-rank"`
	Complexity string `json:"complexity" validate:"required,is-complexity"`
	Decision   string `json:"decision" validate:"omitempty,is-review-decision"`
	Status     string `json:"status" validate:"omitempty,is-admin-job-status"`
	Filter     string `form:"filter" validate:"omitempty,is-job-status"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&sample{
		Email:      "ctv@example.com",
		Role:       "ctv",
		Rank:       "trusted",
		Complexity: "hard",
		Decision:   "request_revision",
		Status:     "disputed",
		Filter:     "submitted",
	})
	assert.NoError(t, err)
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()
	err := v.Validate(&sample{
		Email:      "not-an-email",
		Role:       "model",
		Rank:       "legend",
		Complexity: "insane",
		Decision:   "maybe",
		Status:     "completed",
		Filter:     "archived",
		Page:       -1,
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors, "role")
	assert.Contains(t, vErr.Errors, "rank")
	assert.Contains(t, vErr.Errors, "complexity")
	assert.Contains(t, vErr.Errors, "decision")
	assert.Equal(t, "Must be one of: cancelled, disputed", vErr.Errors["status"])
	assert.Contains(t, vErr.Errors, "filter")
	assert.Contains(t, vErr.Errors, "page")
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "Validation failed: field 'a': one; field 'b': two", err.Error())
}
