package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateExport.
var (
	// ErrInvalidOrigin is returned when the origin is not an absolute URL.
	ErrInvalidOrigin = errors.New("invalid origin: must be an absolute URL such as https://www.exploit-db.com")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPageSize is returned when the listing page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidMaxAttempts is returned when the retry bound is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidBaseDelay is returned when the retry base delay is negative.
	ErrInvalidBaseDelay = errors.New("invalid base delay: must be non-negative")

	// ErrInvalidBackoffFactor is returned when the backoff factor is below 1.
	ErrInvalidBackoffFactor = errors.New("invalid backoff factor: must be at least 1")

	// ErrInvalidRequestInterval is returned when the request interval is negative.
	ErrInvalidRequestInterval = errors.New("invalid request interval: must be non-negative")

	// ErrInvalidEntryID is returned when --id is negative.
	ErrInvalidEntryID = errors.New("invalid entry id: must be positive")

	// ErrConflictingTransports is returned when both --proxy and --tor are set.
	ErrConflictingTransports = errors.New("conflicting transports: --proxy and --tor cannot be used together")

	// ErrNoOutputDir is returned when the export directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrEmptyBaseName is returned when the export base name is empty.
	ErrEmptyBaseName = errors.New("export base name must not be empty")

	// ErrNoFormats is returned when no export format is selected.
	ErrNoFormats = errors.New("no export format selected")
)
