package constants

import "errors"

// Configuration errors.
var (
	ErrNoConfigFile     = errors.New("no configuration file found, use 'deezer config set' to create one")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrEmptyToken       = errors.New("token cannot be empty")
)

// Argument errors.
var (
	ErrInvalidID        = errors.New("invalid Deezer id")
	ErrQueryRequired    = errors.New("a search query or at least one search filter is required")
	ErrUnknownOutput    = errors.New("unknown output format")
	ErrUnknownEntity    = errors.New("unknown search type")
	ErrFilterNotBoolean = errors.New("filter expression must evaluate to a boolean")
)
