package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("history storage failure")
	ErrDecode             = errors.New("history decode failure")
	ErrSessionInterrupted = errors.New("session interrupted")
	ErrNotify             = errors.New("notification failed")
)
