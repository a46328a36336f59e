package models

import "errors"

// Domain specific errors for the city map.
var (
	ErrNotFound           = errors.New("requested item not found")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCategory    = errors.New("unknown poi category")
	ErrInvalidCoordinates = errors.New("coordinates out of geographic range")
	ErrSessionNotFound    = errors.New("map session not found or expired")
	ErrMapLoad            = errors.New("map failed to load")
)
