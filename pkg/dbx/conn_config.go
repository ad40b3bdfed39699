package dbx

import "time"

// PoolConfig represents the tuning applied to every descriptor-addressed pool.
type PoolConfig struct {
	// MaxSize bounds the number of live connections per pool.
	MaxSize int32 `validate:"gte=1"`
	// MinIdle is the idle target established eagerly by WarmUp (Load path).
	MinIdle int32 `validate:"gte=0"`
	// AcquireTimeout bounds a blocked acquire. Zero means wait indefinitely.
	AcquireTimeout time.Duration `validate:"gte=0"`
}

// DefaultPoolConfig - pool tuning used when no configuration is supplied.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxSize: 10,
		MinIdle: 1,
	}
}
