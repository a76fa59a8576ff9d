package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "gdorking"

	// DefaultOrigin is the exploit-db site origin. Listing and detail
	// endpoints are derived from it.
	DefaultOrigin = "https://www.exploit-db.com"

	// DefaultUserAgent is a desktop Chrome identification string.
	// exploit-db rejects requests that do not look like a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultPageSize is the number of records requested per listing page.
	DefaultPageSize = 250

	// DefaultMaxAttempts bounds the retries of one page request.
	DefaultMaxAttempts = 5

	// DefaultBaseDelay is the wait before the first retry.
	DefaultBaseDelay = 1 * time.Second

	// DefaultBackoffFactor multiplies the delay after each retry.
	DefaultBackoffFactor = 2.0

	// DefaultBaseName is the shared file name of the export files.
	DefaultBaseName = "google-dorks"

	// DefaultTorStartupTimeout is the maximum time to wait for the
	// embedded Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// DefaultFormats lists every export format, in the order they are written.
var DefaultFormats = []string{"txt", "md", "json", "csv"}

// Config holds all runtime options for gdorking.
// It is built once from defaults, the optional config file and CLI flags,
// then passed down explicitly.
type Config struct {
	// Origin is the exploit-db origin, e.g. https://www.exploit-db.com.
	Origin string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// PageSize is the listing page length.
	PageSize int

	// MaxAttempts bounds how often one request is tried.
	MaxAttempts int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// BackoffFactor multiplies the delay after each retry.
	BackoffFactor float64

	// RequestInterval is the minimum gap between two requests.
	// Zero disables pacing.
	RequestInterval time.Duration

	// OutputDir is where the export command writes its files.
	OutputDir string

	// BaseName is the shared file name (without extension) of export files.
	BaseName string

	// Formats are the export formats to write.
	Formats []string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes requests through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// Debug enables debug-level logging.
	Debug bool

	// ConfigFilePath is the explicit config file path, if any.
	ConfigFilePath string

	// EntryID selects single-entry mode when positive.
	EntryID int

	// OutputFile is where single-entry and list modes write their text.
	// Empty means standard output.
	OutputFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	formats := make([]string, len(DefaultFormats))
	copy(formats, DefaultFormats)

	return &Config{
		Origin:            DefaultOrigin,
		UserAgent:         DefaultUserAgent,
		Timeout:           DefaultTimeout,
		PageSize:          DefaultPageSize,
		MaxAttempts:       DefaultMaxAttempts,
		BaseDelay:         DefaultBaseDelay,
		BackoffFactor:     DefaultBackoffFactor,
		OutputDir:         XDGDataDir(),
		BaseName:          DefaultBaseName,
		Formats:           formats,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGDataDir returns the XDG data directory for gdorking.
// On Linux: ~/.local/share/gdorking
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ApplyFile overlays non-zero values from a config file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Origin != "" {
		c.Origin = f.Origin
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.PageSize != 0 {
		c.PageSize = f.PageSize
	}
	if f.MaxAttempts != 0 {
		c.MaxAttempts = f.MaxAttempts
	}
	if f.BaseDelay != 0 {
		c.BaseDelay = f.BaseDelay
	}
	if f.BackoffFactor != 0 {
		c.BackoffFactor = f.BackoffFactor
	}
	if f.RequestInterval != 0 {
		c.RequestInterval = f.RequestInterval
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.BaseName != "" {
		c.BaseName = f.BaseName
	}
	if len(f.Formats) > 0 {
		c.Formats = f.Formats
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidOrigin
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.BaseDelay < 0 {
		return ErrInvalidBaseDelay
	}
	if c.BackoffFactor < 1 {
		return ErrInvalidBackoffFactor
	}
	if c.RequestInterval < 0 {
		return ErrInvalidRequestInterval
	}
	if c.EntryID < 0 {
		return ErrInvalidEntryID
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingTransports
	}
	return nil
}

// ValidateExport checks the options used only by the export command.
func (c *Config) ValidateExport() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.BaseName == "" {
		return ErrEmptyBaseName
	}
	if len(c.Formats) == 0 {
		return ErrNoFormats
	}
	return nil
}
