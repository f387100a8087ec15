package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientSpins    = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidUserID        = 4003
	CodeInsufficientLetters  = 4004
	CodeConstraintViolation  = 4005
	CodeInvalidRequest       = 4006
	CodeWordNotFound         = 4040
	CodeNotFound             = 4041
	CodeConcurrentUpdate     = 4090
	CodeInvalidConfiguration = 4220
	CodeWordNotClaimable     = 4221

	// 5xxx - Server errors
	CodeInternalServer       = 5000
	CodeNoActiveSlots        = 5031
	CodeMissionNotConfigured = 5032
	CodeDatabaseConnection   = 5033
)

// Base error types
var (
	// ErrInsufficientSpins is returned when a spin is requested by a user with no spins left
	ErrInsufficientSpins = errors.New("insufficient spins")

	// ErrInsufficientLetters is returned when a word claim is not covered by the user's letters
	ErrInsufficientLetters = errors.New("insufficient letters")

	// ErrNoActiveSlots is returned when the roulette has no active slot with positive weight
	ErrNoActiveSlots = errors.New("no active roulette slots")

	// ErrMissionNotConfigured is returned when a daily login is evaluated with no active daily mission
	ErrMissionNotConfigured = errors.New("daily login mission not configured")

	// ErrMissionExhausted marks a deposit mission whose claim limit is reached.
	// It is informational and never returned from a public operation.
	ErrMissionExhausted = errors.New("mission claim limit reached")

	// ErrConcurrentUpdate is returned when a conditional update lost a race with another
	// operation on the same user. The ledger executor retries it.
	ErrConcurrentUpdate = errors.New("concurrent update conflict")

	// ErrInvalidAmount is returned when an amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrWordNotFound is returned when the requested letter word does not exist or is inactive
	ErrWordNotFound = errors.New("letter word not found")

	// ErrWordNotClaimable is returned when a word's letter requirements are empty or malformed
	ErrWordNotClaimable = errors.New("letter word is not claimable")

	// ErrInvalidSlot is returned when a roulette slot definition is invalid
	ErrInvalidSlot = errors.New("invalid roulette slot")

	// ErrInvalidMission is returned when a mission definition is invalid
	ErrInvalidMission = errors.New("invalid mission")

	// ErrInvalidWord is returned when a letter word definition is invalid
	ErrInvalidWord = errors.New("invalid letter word")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrDuplicateKey is returned when a unique index rejects a row
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientSpins):
		return CodeInsufficientSpins
	case errors.Is(err, ErrInsufficientLetters):
		return CodeInsufficientLetters
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrWordNotFound):
		return CodeWordNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrWordNotClaimable):
		return CodeWordNotClaimable
	case errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrInvalidMission), errors.Is(err, ErrInvalidWord):
		return CodeInvalidConfiguration
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	case errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrDuplicateKey):
		return CodeConstraintViolation
	case errors.Is(err, ErrNoActiveSlots):
		return CodeNoActiveSlots
	case errors.Is(err, ErrMissionNotConfigured):
		return CodeMissionNotConfigured
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// InsufficientSpinsError carries the user whose spin request could not be paid for
type InsufficientSpinsError struct {
	UserID uint64
}

// Error implements the error interface
func (e *InsufficientSpinsError) Error() string {
	return fmt.Sprintf("insufficient spins for user %d", e.UserID)
}

// Is checks if the target error is an ErrInsufficientSpins
func (e *InsufficientSpinsError) Is(target error) bool {
	return target == ErrInsufficientSpins
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientSpinsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_spins",
		"user_id":    e.UserID,
		"error_code": CodeInsufficientSpins,
	}
}

// NewInsufficientSpinsError creates a new insufficient spins error
func NewInsufficientSpinsError(userID uint64) error {
	return &InsufficientSpinsError{UserID: userID}
}

// InsufficientLettersError names the first required letter the user does not hold enough of
type InsufficientLettersError struct {
	UserID    uint64
	WordID    uint64
	Letter    string
	Required  int64
	Available int64
}

// Shortfall is the number of letters still missing
func (e *InsufficientLettersError) Shortfall() int64 {
	return e.Required - e.Available
}

// Error implements the error interface
func (e *InsufficientLettersError) Error() string {
	return fmt.Sprintf("insufficient letters for user %d on word %d: letter %s requires %d, has %d (short %d)",
		e.UserID, e.WordID, e.Letter, e.Required, e.Available, e.Shortfall())
}

// Is checks if the target error is an ErrInsufficientLetters
func (e *InsufficientLettersError) Is(target error) bool {
	return target == ErrInsufficientLetters
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientLettersError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_letters",
		"user_id":    e.UserID,
		"word_id":    e.WordID,
		"letter":     e.Letter,
		"required":   e.Required,
		"available":  e.Available,
		"shortfall":  e.Shortfall(),
		"error_code": CodeInsufficientLetters,
	}
}

// NewInsufficientLettersError creates a new detailed insufficient letters error
func NewInsufficientLettersError(userID, wordID uint64, letter string, required, available int64) error {
	return &InsufficientLettersError{
		UserID:    userID,
		WordID:    wordID,
		Letter:    letter,
		Required:  required,
		Available: available,
	}
}

// MissionExhaustedError reports a deposit mission that has no claims left for a user
type MissionExhaustedError struct {
	UserID     uint64
	MissionID  uint64
	ClaimsUsed int64
	MaxClaims  int64
}

// Error implements the error interface
func (e *MissionExhaustedError) Error() string {
	return fmt.Sprintf("mission %d exhausted for user %d (%d/%d claims)",
		e.MissionID, e.UserID, e.ClaimsUsed, e.MaxClaims)
}

// Is checks if the target error is an ErrMissionExhausted
func (e *MissionExhaustedError) Is(target error) bool {
	return target == ErrMissionExhausted
}

// LogFields returns a map of fields for structured logging
func (e *MissionExhaustedError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "mission_exhausted",
		"user_id":     e.UserID,
		"mission_id":  e.MissionID,
		"claims_used": e.ClaimsUsed,
		"max_claims":  e.MaxClaims,
	}
}

// NewMissionExhaustedError creates a new mission exhausted error
func NewMissionExhaustedError(userID, missionID uint64, claimsUsed, maxClaims int64) error {
	return &MissionExhaustedError{
		UserID:     userID,
		MissionID:  missionID,
		ClaimsUsed: claimsUsed,
		MaxClaims:  maxClaims,
	}
}

// ConflictError wraps a lost conditional update with the operation that lost it
type ConflictError struct {
	UserID    uint64
	Operation string
	Err       error
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("concurrent update conflict for user %d during %s", e.UserID, e.Operation)
	}
	return fmt.Sprintf("concurrent update conflict for user %d during %s: %v", e.UserID, e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrConcurrentUpdate
func (e *ConflictError) Is(target error) bool {
	return target == ErrConcurrentUpdate
}

// LogFields returns a map of fields for structured logging
func (e *ConflictError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type": "concurrent_update",
		"user_id":    e.UserID,
		"operation":  e.Operation,
		"error_code": CodeConcurrentUpdate,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewConflictError creates a new concurrent update conflict error
func NewConflictError(userID uint64, operation string, err error) error {
	return &ConflictError{
		UserID:    userID,
		Operation: operation,
		Err:       err,
	}
}

// LedgerError wraps a failure of a ledger operation with its user and operation name
type LedgerError struct {
	UserID    uint64
	Operation string
	Err       error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s failed for user %d: %v", e.Operation, e.UserID, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"user_id":    e.UserID,
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewLedgerError creates a ledger error
func NewLedgerError(userID uint64, operation string, err error) error {
	return &LedgerError{
		UserID:    userID,
		Operation: operation,
		Err:       err,
	}
}

// IsConcurrentUpdateError checks if the error is a lost conditional update
func IsConcurrentUpdateError(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrWordNotFound)
}

// IsConfigurationError checks if the error comes from invalid or missing reward configuration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoActiveSlots) ||
		errors.Is(err, ErrMissionNotConfigured) ||
		errors.Is(err, ErrWordNotClaimable) ||
		errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrInvalidMission) ||
		errors.Is(err, ErrInvalidWord)
}
