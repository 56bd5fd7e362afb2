package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrBaselineNotFound = errors.New("cycle baseline is not set")
	ErrInvalidBaseline  = errors.New("cycle baseline values out of range")

	ErrEventExists      = errors.New("event for this date already exists")
	ErrEventNotFound    = errors.New("event doesn't exist")
	ErrNothingToUndo    = errors.New("no recent event to undo")
	ErrInvalidEventKind = errors.New("unknown event kind")
	ErrInvalidDate      = errors.New("invalid date")

	ErrChallengeNotFound = errors.New("challenge doesn't exist")
	ErrInvalidGoal       = errors.New("invalid goal values")
	ErrInvalidReminder   = errors.New("invalid reminder time")
	ErrChallengeExists   = errors.New("challenge of this type already exists")
	ErrNotCustomGoal     = errors.New("only custom goals can be edited")
	ErrWrongOwner        = errors.New("resource has different owner")
)
