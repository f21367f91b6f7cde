package apperrors

type ErrorCode string

const (
	// system
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// generic business rules
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// job lifecycle
	CodeJobNotAvailable        ErrorCode = "JOB_NOT_AVAILABLE"
	CodeJobAlreadyClaimed      ErrorCode = "JOB_ALREADY_CLAIMED"
	CodeConcurrentLimitReached ErrorCode = "CONCURRENT_LIMIT_REACHED"
	CodeCTVNotVerified         ErrorCode = "CTV_NOT_VERIFIED"
	CodeNotJobHolder           ErrorCode = "NOT_JOB_HOLDER"
	CodeSafetyChecksRequired   ErrorCode = "SAFETY_CHECKS_REQUIRED"
	CodeConfirmationsRequired  ErrorCode = "CONFIRMATIONS_REQUIRED"
	CodeSubmissionReviewed     ErrorCode = "SUBMISSION_ALREADY_REVIEWED"
	CodeInvalidPayout          ErrorCode = "INVALID_PAYOUT"
)
