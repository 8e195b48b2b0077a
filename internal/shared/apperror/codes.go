package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorizedCaller = "UNAUTHORIZED_CALLER"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeTransferFailed     = "TRANSFER_FAILED"

	// Server / upstream errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidPrice  = "INVALID_PRICE"
)
