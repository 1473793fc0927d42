package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sorki/pipes-cliff/logger"
)

// Tunables holds the engine parameters left configurable rather than baked
// in: buffer sizing, read granularity, and termination patience.
type Tunables struct {
	// ChunkSize is the maximum bytes per read from a child's stream.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"omitempty,min=1"`
	// MailboxCapacity is how many chunks a stream handoff may hold in
	// flight. One is enough for pipeline concurrency; larger values trade
	// memory for burst absorption.
	MailboxCapacity int `yaml:"mailbox_capacity" mapstructure:"mailbox_capacity" validate:"omitempty,min=1"`
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"omitempty,min=0"`
	// Logging configures the library logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// DefaultTunables returns the documented defaults.
func DefaultTunables() Tunables {
	t := Tunables{}
	t.ApplyDefaults()
	return t
}

// ApplyDefaults fills unset fields with the documented defaults.
func (t *Tunables) ApplyDefaults() {
	if t.ChunkSize == 0 {
		t.ChunkSize = 1024
	}
	if t.MailboxCapacity == 0 {
		t.MailboxCapacity = 1
	}
	if t.GracePeriod == 0 {
		t.GracePeriod = 5 * time.Second
	}
	t.Logging.ApplyDefaults()
}

var validate = validator.New()

// Validate checks the tunables after defaults have been applied.
func (t *Tunables) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := t.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
