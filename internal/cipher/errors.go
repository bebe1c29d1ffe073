package cipher

import (
	"errors"
	"fmt"
)

// ConfigurationError is the single error kind raised by the cipher core.
//
// It covers invalid alphabets, malformed cycle notation, characters outside
// an alphabet, and every structural violation of a machine configuration.
// Code identifies the category; Message is the human-readable diagnostic.
type ConfigurationError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeAlphabetReserved indicates a reserved character in an alphabet.
	ErrCodeAlphabetReserved ErrorCode = "ALPHABET_RESERVED"

	// ErrCodeAlphabetDuplicate indicates a repeated alphabet character.
	ErrCodeAlphabetDuplicate ErrorCode = "ALPHABET_DUPLICATE"

	// ErrCodeNotInAlphabet indicates a character outside the alphabet.
	ErrCodeNotInAlphabet ErrorCode = "CHAR_NOT_IN_ALPHABET"

	// ErrCodeAlphabetMismatch indicates components built on different alphabets.
	ErrCodeAlphabetMismatch ErrorCode = "ALPHABET_MISMATCH"

	// ErrCodeDuplicateCycleChar indicates a character named twice in cycle notation.
	ErrCodeDuplicateCycleChar ErrorCode = "DUPLICATE_CYCLE_CHAR"

	// ErrCodeMalformedCycle indicates cycle notation that cannot be parsed.
	ErrCodeMalformedCycle ErrorCode = "MALFORMED_CYCLE"

	// ErrCodeSettingLength indicates a position or ring setting of the wrong length.
	ErrCodeSettingLength ErrorCode = "SETTING_LENGTH"

	// ErrCodeUnknownRotor indicates a rotor name missing from the catalog.
	ErrCodeUnknownRotor ErrorCode = "UNKNOWN_ROTOR"

	// ErrCodeDuplicateRotor indicates the same rotor selected twice.
	ErrCodeDuplicateRotor ErrorCode = "DUPLICATE_ROTOR"

	// ErrCodeMissingMarker indicates a settings line without the leading "*".
	ErrCodeMissingMarker ErrorCode = "MISSING_MARKER"

	// ErrCodeReflectorSlot indicates a reflector outside slot 0 or a
	// non-reflector in slot 0.
	ErrCodeReflectorSlot ErrorCode = "REFLECTOR_SLOT"

	// ErrCodeRotorOrder indicates a stationary rotor right of a stepping rotor.
	ErrCodeRotorOrder ErrorCode = "ROTOR_ORDER"

	// ErrCodePawlCount indicates the stepping rotor count differs from the pawls.
	ErrCodePawlCount ErrorCode = "PAWL_COUNT"

	// ErrCodeReflectorPosition indicates an attempt to turn a reflector.
	ErrCodeReflectorPosition ErrorCode = "REFLECTOR_POSITION"

	// ErrCodeRotorType indicates a malformed rotor type code.
	ErrCodeRotorType ErrorCode = "ROTOR_TYPE"

	// ErrCodeSlotCount indicates invalid slot/pawl counts or a wrong number
	// of rotors in a selection.
	ErrCodeSlotCount ErrorCode = "SLOT_COUNT"

	// ErrCodeNotConfigured indicates conversion before rotors were inserted.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"

	// ErrCodeNotDerangement indicates a reflector with a fixed point while
	// strict reflector checking is enabled.
	ErrCodeNotDerangement ErrorCode = "NOT_DERANGEMENT"
)

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf creates a ConfigurationError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsConfigurationError returns true if err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsAlphabetError returns true if the error reports a character outside
// an alphabet. Uses errors.As to handle wrapped errors.
func IsAlphabetError(err error) bool {
	return HasCode(err, ErrCodeNotInAlphabet)
}

// HasCode returns true if err wraps a ConfigurationError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// CodeOf returns the code of the wrapped ConfigurationError, or "" if none.
func CodeOf(err error) ErrorCode {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
