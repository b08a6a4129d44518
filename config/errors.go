package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed into a Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrLoadingEnvFile is returned when an explicitly named .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	ErrInvalidBaseURL   = errors.New("base url must be absolute http(s)")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
)
