package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrConcurrentLimitReached reports the holder's locked count against the rank ceiling.
func ErrConcurrentLimitReached(current, max int64) *AppError {
	return New(
		CodeConcurrentLimitReached,
		"job",
		"Concurrent job limit reached for your rank",
		http.StatusConflict,
	).WithDetails(map[string]int64{
		"current_locked": current,
		"max_allowed":    max,
	})
}

// ErrSafetyChecksRequired lists the checks that were false or missing on an approval.
func ErrSafetyChecksRequired(missing []string) *AppError {
	return New(
		CodeSafetyChecksRequired,
		"review",
		"All safety checks must pass before approval",
		http.StatusUnprocessableEntity,
	).WithDetails(map[string][]string{"missing_checks": missing})
}

func ErrConfirmationsRequired(missing []string) *AppError {
	return New(
		CodeConfirmationsRequired,
		"submission",
		"Submission confirmations are required",
		http.StatusUnprocessableEntity,
	).WithDetails(map[string][]string{"missing_confirmations": missing})
}

// =========================================================================
// Sentinels
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrJobNotAvailable = New(
	CodeJobNotAvailable,
	"job",
	"Job is no longer available",
	http.StatusConflict,
)

var ErrJobAlreadyClaimed = New(
	CodeJobAlreadyClaimed,
	"job",
	"Job has already been claimed by another collaborator",
	http.StatusConflict,
)

var ErrNotJobHolder = New(
	CodeNotJobHolder,
	"job",
	"You do not hold this job",
	http.StatusForbidden,
)

var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

// --- Profiles ---

var ErrProfileNotFound = New(
	CodeNotFound,
	"profile",
	"Profile not found",
	http.StatusNotFound,
)

var ErrCTVNotVerified = New(
	CodeCTVNotVerified,
	"profile",
	"Your account must be verified before claiming jobs",
	http.StatusForbidden,
)

var ErrNotCTV = New(
	CodeInvalidOperation,
	"profile",
	"Operation is only available for collaborators",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"profile",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Submissions & review ---

var ErrSubmissionNotFound = New(
	CodeNotFound,
	"submission",
	"Submission not found",
	http.StatusNotFound,
)

var ErrSubmissionReviewed = New(
	CodeSubmissionReviewed,
	"review",
	"Submission has already been reviewed",
	http.StatusConflict,
)

var ErrInvalidPayout = New(
	CodeInvalidPayout,
	"review",
	"Deduction cannot exceed the job price plus bonus",
	http.StatusUnprocessableEntity,
)

// --- Configuration ---

var ErrRankLimitNotFound = New(
	CodeNotFound,
	"config",
	"Rank limit not configured",
	http.StatusNotFound,
)

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)
