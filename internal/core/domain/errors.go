package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("access forbidden")
	ErrFileNotFound = errors.New("file not found")
)
