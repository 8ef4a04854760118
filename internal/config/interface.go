package config

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Provider defines the interface for accessing configuration values.
// All values are immutable after loading.
type Provider interface {
	// GetDevice returns the configured device serial, empty for auto-detect
	GetDevice() string

	// GetTarget returns the target app package for frame stats
	GetTarget() string

	// GetInterval returns the sample interval in seconds
	GetInterval() int

	// GetTotalMemMB returns the assumed device memory capacity.
	// This is an approximation, not a measured value.
	GetTotalMemMB() float64

	// GetSystemPrefixes returns the system process name allow-list
	GetSystemPrefixes() []string
}

func (c *Config) GetDevice() string           { return c.Device }
func (c *Config) GetTarget() string           { return c.Target }
func (c *Config) GetInterval() int            { return c.Interval }
func (c *Config) GetTotalMemMB() float64      { return c.TotalMemMB }
func (c *Config) GetSystemPrefixes() []string { return c.SystemPrefixes }
