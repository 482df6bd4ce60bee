package errors

import "errors"

var (
	ErrNotFound = errors.New("court not found")

	ErrDuplicate = errors.New("court already exists")

	ErrUnavailable = errors.New("court is not available for booking")

	ErrInvalidStatus = errors.New("invalid court status")
)
