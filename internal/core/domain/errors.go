package domain

import "errors"

var (
	ErrPollNotFound       = errors.New("poll not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrVoteNotFound       = errors.New("user did not vote on this poll")
	ErrInvalidPoll        = errors.New("invalid poll data")
	ErrInvalidFlagType    = errors.New("invalid flag type")
	ErrInvalidOption      = errors.New("invalid option for this poll")
	ErrAlreadyVoted       = errors.New("user has already voted")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
