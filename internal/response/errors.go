package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrAuthProvider       ErrCode = "AUTH_PROVIDER_ERROR"
	ErrNoSession          ErrCode = "NO_SESSION_RETURNED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrUserIDRequired ErrCode = "USER_ID_REQUIRED"

	// ─── Upstream (Canvas) ─────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Log ingestion ─────────────────────────────────────────────────
	ErrUnsupportedMedia ErrCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrPayloadTooLarge  ErrCode = "PAYLOAD_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication required."
	case ErrTokenInvalid:
		return "Invalid or expired token."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrAuthProvider:
		return "Identity provider rejected the request."
	case ErrNoSession:
		return "Authentication succeeded but no session was returned."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrUserIDRequired:
		return "canvas_user_id query parameter required."

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstream:
		return "Upstream Canvas API request failed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Log ingestion ─────────────────────────────────────────────────
	case ErrUnsupportedMedia:
		return "Content-Type must be application/json."
	case ErrPayloadTooLarge:
		return "Log payload too large."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
