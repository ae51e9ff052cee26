package report

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("report not found")
	ErrEmptyDescription   = errors.New("report description is empty")
	ErrInvalidCoordinates = errors.New("report coordinates out of range")
	ErrInvalidID          = errors.New("invalid report id")
)
