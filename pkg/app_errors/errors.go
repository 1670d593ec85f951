package apperrors

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrNoSeatsAvailable   = errors.New("no seats available")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSaveFailed         = errors.New("failed to save booking")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRecordOutOfRange   = errors.New("record index out of range")
	ErrPNRCollision       = errors.New("could not generate an unused pnr")
)
