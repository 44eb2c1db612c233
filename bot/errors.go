package bot

import "errors"

// Lifecycle and platform error classes the control surface branches on with
// errors.Is. Everything else is a wrapped platform error.
var (
	// ErrAlreadyRunning is returned by Start while a connection is live.
	ErrAlreadyRunning = errors.New("bot is already running")

	// ErrNotRunning is returned by Stop and the messaging facade while the
	// bot is stopped.
	ErrNotRunning = errors.New("bot is not running")

	// ErrInvalidChannel is returned when the configured target channel does
	// not resolve to a text-capable channel.
	ErrInvalidChannel = errors.New("channel is not a text channel")

	// ErrInvalidPoll is returned when a poll has no question or fewer than
	// two non-empty options.
	ErrInvalidPoll = errors.New("poll needs a question and at least two options")

	// ErrUserUnreachable is returned when a direct message cannot be
	// delivered, e.g. the user has DMs disabled.
	ErrUserUnreachable = errors.New("user cannot receive direct messages")
)
