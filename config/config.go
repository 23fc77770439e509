package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/task-runtime/errors"
)

// Config carries the tunables of a scheduler and its tasks.
type Config struct {
	// MinStackSize is the size of a task's initial stack segment.
	MinStackSize uint32 `toml:"min_stack_size"`

	// MaxIdleSegments bounds the scheduler's segment recycling cache.
	MaxIdleSegments int `toml:"max_idle_segments"`

	// TaskHeapStart is the initial size of each task-local heap.
	TaskHeapStart uint32 `toml:"task_heap_start"`

	// TaskHeapCap bounds task-local heap growth; 0 = unbounded.
	TaskHeapCap uint32 `toml:"task_heap_cap"`

	// ExchangeHeapStart is the initial size of the exchange heap.
	ExchangeHeapStart uint32 `toml:"exchange_heap_start"`

	// ExchangeHeapCap bounds exchange heap growth; 0 = unbounded.
	ExchangeHeapCap uint32 `toml:"exchange_heap_cap"`

	// GCBudget triggers the GC collaborator once a task's live bytes reach
	// it; 0 disables the trigger.
	GCBudget uint64 `toml:"gc_budget"`

	// CCBudget is the cycle-collector analogue of GCBudget.
	CCBudget uint64 `toml:"cc_budget"`

	// DebugOrigins records an allocation-origin tag per task-local
	// allocation for leak reports.
	DebugOrigins bool `toml:"debug_origins"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		MinStackSize:      64 * 1024,
		MaxIdleSegments:   16,
		TaskHeapStart:     64 * 1024,
		TaskHeapCap:       0,
		ExchangeHeapStart: 256 * 1024,
		ExchangeHeapCap:   0,
		GCBudget:          0,
		CCBudget:          0,
		LogLevel:          "info",
	}
}

// Load reads path (when non-empty), applies environment overrides and
// validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode "+path)
		}
	}
	cfg.fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envU32(key string, dst *uint32) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			*dst = uint32(n)
		}
	}
}

func envU64(key string, dst *uint64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func (c *Config) fromEnv() {
	envU32("TASKRT_MIN_STACK", &c.MinStackSize)
	envU32("TASKRT_TASK_HEAP_START", &c.TaskHeapStart)
	envU32("TASKRT_TASK_HEAP_CAP", &c.TaskHeapCap)
	envU32("TASKRT_EXCHANGE_HEAP_START", &c.ExchangeHeapStart)
	envU32("TASKRT_EXCHANGE_HEAP_CAP", &c.ExchangeHeapCap)
	envU64("TASKRT_GC_BUDGET", &c.GCBudget)
	envU64("TASKRT_CC_BUDGET", &c.CCBudget)
	if v := os.Getenv("TASKRT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKRT_DEBUG_ORIGINS"); v != "" {
		c.DebugOrigins = v == "1" || v == "true"
	}
}

// Validate rejects configurations the runtime cannot honor.
func (c *Config) Validate() error {
	if c.MinStackSize < 4096 {
		return errors.InvalidInput(errors.PhaseConfig, "min_stack_size below 4096")
	}
	if c.TaskHeapCap != 0 && c.TaskHeapCap < c.TaskHeapStart {
		return errors.InvalidInput(errors.PhaseConfig, "task_heap_cap below task_heap_start")
	}
	if c.ExchangeHeapCap != 0 && c.ExchangeHeapCap < c.ExchangeHeapStart {
		return errors.InvalidInput(errors.PhaseConfig, "exchange_heap_cap below exchange_heap_start")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.InvalidInput(errors.PhaseConfig, "log_level must be debug, info, warn or error")
	}
	return nil
}

// Logger builds a zap logger honoring LogLevel.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse log level")
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}
