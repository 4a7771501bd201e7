package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lockin/internal/platform/variant"
)

const (
	TransportFile   = "file"
	TransportMemory = "memory"
)

// Keys shared by flags, env (LOCKIN_<KEY>) and config.yaml.
const (
	KeyConfigFile    = "config"
	KeyDataDir       = "data_dir"
	KeyVariant       = "variant"
	KeyDefaultLength = "default_length_minutes"
	KeyTickInterval  = "tick_interval"
	KeyTransport     = "transport"
	KeyLogLevel      = "log_level"
)

type Config struct {
	DataDir              string
	DBPath               string
	NotesDir             string
	Variant              variant.Variant
	DefaultLengthMinutes int
	TickInterval         time.Duration
	Transport            string
	LogLevel             string
}

// NewViper returns a viper instance with defaults and LOCKIN_* env binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataDir, defaultDataDir())
	v.SetDefault(KeyVariant, variant.LockIn.Name)
	v.SetDefault(KeyDefaultLength, 25)
	v.SetDefault(KeyTickInterval, time.Second)
	v.SetDefault(KeyTransport, TransportFile)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetEnvPrefix("lockin")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and validates the merged settings.
// An explicit config file must exist; the implicit <data-dir>/config.yaml may not.
func Load(v *viper.Viper) (Config, error) {
	if explicit := v.GetString(KeyConfigFile); explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", explicit, err)
		}
	} else if dir := v.GetString(KeyDataDir); dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return New(v)
}

func New(v *viper.Viper) (Config, error) {
	dataDir := strings.TrimSpace(v.GetString(KeyDataDir))
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	flavour, err := variant.Lookup(v.GetString(KeyVariant))
	if err != nil {
		return Config{}, err
	}
	length := v.GetInt(KeyDefaultLength)
	if length <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyDefaultLength, length)
	}
	tick := v.GetDuration(KeyTickInterval)
	if tick <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyTickInterval, tick)
	}
	transport := strings.ToLower(v.GetString(KeyTransport))
	if transport != TransportFile && transport != TransportMemory {
		return Config{}, fmt.Errorf("unknown transport %q (want %s or %s)", transport, TransportFile, TransportMemory)
	}
	return Config{
		DataDir:              dataDir,
		DBPath:               filepath.Join(dataDir, "lockin.db"),
		NotesDir:             filepath.Join(dataDir, "notes"),
		Variant:              flavour,
		DefaultLengthMinutes: length,
		TickInterval:         tick,
		Transport:            transport,
		LogLevel:             v.GetString(KeyLogLevel),
	}, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".lockin"
	}
	return filepath.Join(home, ".lockin")
}
