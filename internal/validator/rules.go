package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// registerCustomRules wires the enum checks backed by models/statuses.go.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-user-rank", validateUserRank)
	mustRegister("is-complexity", validateComplexity)
	mustRegister("is-review-decision", validateReviewDecision)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-admin-job-status", validateAdminJobStatus)
}

// Empty values pass: 'required' handles presence.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateUserRank(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRank(value).IsValid()
}

func validateComplexity(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.Complexity(value).IsValid()
}

func validateReviewDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ReviewAction(value).IsValid()
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.JobStatus(value).IsValid()
}

// Only the escalation targets may be set directly by an admin.
func validateAdminJobStatus(fl validator.FieldLevel) bool {
	switch models.JobStatus(fl.Field().String()) {
	case "", models.JobStatusCancelled, models.JobStatusDisputed:
		return true
	default:
		return false
	}
}
