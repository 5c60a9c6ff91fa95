package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status code constants
const (
	// Success codes (2xx)
	StatusOK        = 200
	StatusCreated   = 201
	StatusAccepted  = 202
	StatusNoContent = 204

	// Client error codes (4xx)
	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	// Server error codes (5xx)
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages
const (
	MsgSuccess = "Operation successful"
	MsgCreated = "Created successfully"

	MsgBadRequest      = "Invalid request"
	MsgUnauthorized    = "Please sign in"
	MsgForbidden       = "Access denied"
	MsgNotFound        = "Resource not found"
	MsgConflict        = "Data conflict"
	MsgTooManyRequests = "Too many requests"
	MsgInternalError   = "Internal system error"

	MsgTokenMissing = "Missing authentication token"
	MsgTokenInvalid = "Invalid token"
	MsgTokenExpired = "Token has expired"

	MsgValidationError = "Invalid data"
	MsgDatabaseError   = "Database interaction error"
	MsgInvalidFormat   = "Invalid data format"
)

// ErrorCode describes a detailed error code.
type ErrorCode struct {
	Code        string // Code (e.g. AUTH_001)
	Category    string // Category (e.g. Authentication)
	SubCategory string // Sub-category (e.g. Token)
	Description string // Detailed description
}

// Hierarchical error code definitions.
var (
	// System errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	// Authentication errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Token related error",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Credential error",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Actor role error",
	}

	// Validation errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Invalid input data",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Invalid data format",
	}

	// Database errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "General database error",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Database query error",
	}

	// Business logic errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Business state error",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Business operation error",
	}

	// Monitoring/analytics errors (MON_xxx)
	ErrCodeComputationSkipped = ErrorCode{
		Code:        "MON_001",
		Category:    "Monitoring",
		SubCategory: "Computation",
		Description: "A single record's evaluation failed and was skipped",
	}

	ErrCodeStaleAggregate = ErrorCode{
		Code:        "MON_002",
		Category:    "Monitoring",
		SubCategory: "Cache",
		Description: "Cached aggregate exceeded its TTL; a fresh read is recommended",
	}
)

// Error is the detailed error structure used across the application.
type Error struct {
	Code       ErrorCode // Detailed error code
	Message    string    // Error message
	StatusCode int       // HTTP status code
	Details    any       // Extra details about the error
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// Is supports errors.Is by comparing error codes.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError creates a new error with full information.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Authentication
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Incorrect credentials", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Session has expired", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Invalid token", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Missing authentication token", StatusUnauthorized, nil)
	ErrForbiddenRole      = NewError(ErrCodeAuthRole, "Actor role is not allowed to perform this action", StatusForbidden, nil)

	// Validation
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Invalid input data", StatusBadRequest, nil)
	ErrInvalidEmail  = NewError(ErrCodeValidationInput, "Email has an invalid format", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Invalid data format", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Required field is missing", StatusBadRequest, nil)

	// Database
	ErrNotFound     = NewError(ErrCodeDatabaseQuery, "Data not found", StatusNotFound, nil)
	ErrDuplicateKey = NewError(ErrCodeDatabaseQuery, "Data already exists", StatusConflict, nil)
	ErrDatabase     = NewError(ErrCodeDatabase, "Database error", StatusInternalServerError, nil)

	// Business
	ErrInvalidState = NewError(ErrCodeBusinessState, "Invalid state for this operation", StatusConflict, nil)

	// Monitoring/analytics. Skipped records and served-stale aggregates are
	// reported through result fields, not errors; their codes (MON_001,
	// MON_002) tag the log lines instead.
	ErrSweepAlreadyRunning = NewError(ErrCodeBusinessOperation, "A lifecycle sweep is already in progress", StatusConflict, nil)
)

// ConvertMongoError maps a mongo-driver error onto the application's error taxonomy.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}

	if mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, "Database operation timed out", StatusServiceUnavailable, err)
	}

	if mongo.IsNetworkError(err) {
		return NewError(ErrCodeDatabaseConnection, "Database network error", StatusServiceUnavailable, err)
	}

	return NewError(ErrCodeDatabaseQuery, err.Error(), StatusInternalServerError, err)
}
