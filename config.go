package simplemvp

import "fmt"

// Default configuration values.
const (
	// DefaultThinningFactor is the queue thinning factor applied when
	// Config.ThinningFactor is zero.
	DefaultThinningFactor = 8

	// DefaultQueueWarnDepth is the backlog size that triggers a warning log
	// when Config.QueueWarnDepth is zero.
	DefaultQueueWarnDepth = 256
)

// Config holds presenter configuration.
//
// The zero value is usable after SetDefaults fills in the defaults;
// NewPresenter does this automatically.
type Config struct {
	// ThinningFactor controls adaptive subsampling of a handle's queue
	// under backlog: during a drain pass roughly ThinningFactor snapshots
	// of the current backlog are forwarded and the rest are skipped, while
	// the final snapshot of a burst is always delivered.
	//
	// Default: 8. Must be at least 1.
	ThinningFactor int `yaml:"thinningFactor"`

	// QueueWarnDepth is the queue backlog at which a warning is logged,
	// indicating a paused or slow view while the presenter keeps posting.
	//
	// Default: 256. Set to a negative value to disable the warning.
	QueueWarnDepth int `yaml:"queueWarnDepth"`
}

// SetDefaults fills in missing configuration values with defaults.
func SetDefaults(cfg *Config) {
	if cfg.ThinningFactor == 0 {
		cfg.ThinningFactor = DefaultThinningFactor
	}
	if cfg.QueueWarnDepth == 0 {
		cfg.QueueWarnDepth = DefaultQueueWarnDepth
	}
}

// Validate checks the configuration for invalid values.
//
// Returns:
//   - error: Wrapped ErrInvalidConfig describing the first violation found
func (c *Config) Validate() error {
	if c.ThinningFactor < 1 {
		return fmt.Errorf("%w: thinning factor must be at least 1, got %d", ErrInvalidConfig, c.ThinningFactor)
	}

	return nil
}
