package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PIPECLIFF"

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads tunables from the config file (if any), a .env file (if any),
// and PIPECLIFF_-prefixed environment variables, applies defaults, and
// validates the result. Precedence: environment over file over defaults.
func Load(opts ...LoaderOption) (Tunables, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return Tunables{}, fmt.Errorf("config: load env file %s: %w", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if lc.ConfigFile != "" {
		if _, err := os.Stat(lc.ConfigFile); err != nil {
			return Tunables{}, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Tunables{}, fmt.Errorf("config: read %s: %w", lc.ConfigFile, err)
		}
	}

	var t Tunables
	if err := v.Unmarshal(&t); err != nil {
		return Tunables{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return Tunables{}, err
	}
	return t, nil
}

// bindKeys registers every known key so AutomaticEnv sees the ones that
// only exist as environment variables.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"chunk_size",
		"mailbox_capacity",
		"grace_period",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"logging.caller",
	} {
		_ = v.BindEnv(key)
	}
}
