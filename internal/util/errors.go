package util

import "errors"

var (
	ErrMissingConnector = errors.New("database connector is not configured")
	ErrInvalidTimeValue = errors.New("time data does not match format 'YYYY-MM-DD HH:MM:SS.ffffff'")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
