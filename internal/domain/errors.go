package domain

import "errors"

var (
	ErrInvalidAction           = errors.New("invalid activity action")
	ErrInvalidPoints           = errors.New("points must be positive")
	ErrInvalidNotificationKind = errors.New("invalid notification kind")
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("forbidden")
	ErrPollClosed              = errors.New("poll is no longer active")
	ErrInvalidPollOption       = errors.New("option does not belong to poll")
)
