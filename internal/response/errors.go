package response

// ErrCode is a typed error code enum for consistent error identification on
// both sides of the wire.
type ErrCode string

const (
	// ─── Failure classes ───────────────────────────────────────────────
	ErrTransport    ErrCode = "TRANSPORT_ERROR"
	ErrApplication  ErrCode = "APPLICATION_ERROR"
	ErrPrecondition ErrCode = "PRECONDITION_FAILED"

	// ─── Preconditions ─────────────────────────────────────────────────
	ErrDraftMissing       ErrCode = "DRAFT_MISSING"
	ErrInvalidSelection   ErrCode = "INVALID_SELECTION"
	ErrDuplicateRoom      ErrCode = "DUPLICATE_ROOM"
	ErrRoomNameClash      ErrCode = "ROOM_NAME_CLASH"
	ErrIncompleteFields   ErrCode = "INCOMPLETE_FIELDS"
	ErrDateOutOfRange     ErrCode = "DATE_OUT_OF_RANGE"
	ErrInvalidDateRange   ErrCode = "INVALID_DATE_RANGE"
	ErrMissingStudentData ErrCode = "MISSING_STUDENT_DATA"
	ErrNotConfirmed       ErrCode = "NOT_CONFIRMED"
	ErrStepNotReady       ErrCode = "STEP_NOT_READY"

	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrLoginRequired      ErrCode = "LOGIN_REQUIRED"
	ErrCSRFFailed         ErrCode = "CSRF_FAILED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrConflict       ErrCode = "CONFLICT"
	ErrSeatingMissing ErrCode = "SEATING_MISSING"
	ErrNoStudents     ErrCode = "NO_STUDENTS"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Failure classes ───────────────────────────────────────────────
	case ErrTransport:
		return "Could not reach the server."
	case ErrApplication:
		return "The server rejected the request."
	case ErrPrecondition:
		return "The action is not available yet."

	// ─── Preconditions ─────────────────────────────────────────────────
	case ErrDraftMissing:
		return "No exam draft is active. Reload the page to start a new one."
	case ErrInvalidSelection:
		return "Select the required number of files."
	case ErrDuplicateRoom:
		return "Each room must have a unique building + room number combination."
	case ErrRoomNameClash:
		return "Building name and room number cannot be the same."
	case ErrIncompleteFields:
		return "Please fill in all required fields."
	case ErrDateOutOfRange:
		return "Exam dates must fall within the exam's start and end dates."
	case ErrInvalidDateRange:
		return "Start date must be on or before the end date."
	case ErrMissingStudentData:
		return "Some departments have no student data selected."
	case ErrNotConfirmed:
		return "Cancelled."
	case ErrStepNotReady:
		return "Complete this step before continuing."

	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrLoginRequired:
		return "Authentication required."
	case ErrCSRFFailed:
		return "CSRF verification failed."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrSeatingMissing:
		return "No seating has been generated for this exam."
	case ErrNoStudents:
		return "No students found for the selected data."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
