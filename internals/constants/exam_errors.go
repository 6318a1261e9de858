package constants

import (
	"errors"
	"fmt"
)

// Kategori error. Error konkret membungkus salah satu kategori ini
// sehingga caller cukup memakai errors.Is(err, ErrValidation), dst.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrCommitFailure = errors.New("commit failure")
)

var (
	ErrInvalidDate        = fmt.Errorf("%w: exam date must be after today", ErrValidation)
	ErrMissingSubject     = fmt.Errorf("%w: subject_code is required", ErrValidation)
	ErrMissingRoom        = fmt.Errorf("%w: room_number is required", ErrValidation)
	ErrMissingShift       = fmt.Errorf("%w: shift_code is required", ErrValidation)
	ErrUnknownSubject     = fmt.Errorf("%w: unknown subject", ErrValidation)
	ErrUnknownRoom        = fmt.Errorf("%w: unknown room", ErrValidation)
	ErrUnknownShift       = fmt.Errorf("%w: unknown shift", ErrValidation)
	ErrShiftNotOrdered    = fmt.Errorf("%w: shift start_time must be before end_time", ErrValidation)
	ErrUnknownClass       = fmt.Errorf("%w: class is not enrolled in subject", ErrValidation)
	ErrNotAnAssistant     = fmt.Errorf("%w: user is not an assistant", ErrValidation)
	ErrIncompletePair     = fmt.Errorf("%w: select a transaction and an assistant first", ErrValidation)
	ErrAllocationConflict = fmt.Errorf("%w: room and shift already occupied on that date", ErrConflict)

	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrAssistantNotFound   = fmt.Errorf("%w: assistant", ErrNotFound)
	ErrPairOutOfRange      = fmt.Errorf("%w: pair index out of range", ErrNotFound)
	ErrSessionNotFound     = fmt.Errorf("%w: pairing session", ErrNotFound)
)
