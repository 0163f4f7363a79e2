package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode     string `mapstructure:"mode" validate:"oneof=debug release test"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Secret   string `mapstructure:"secret"`
	APIToken string `mapstructure:"api_token"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`

	Court     CourtConfig     `mapstructure:"court"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Reconnect ReconnectConfig `mapstructure:"reconnect"`
	Vote      VoteConfig      `mapstructure:"vote"`
	Room      RoomConfig      `mapstructure:"room"`
	Shutdown  ShutdownConfig  `mapstructure:"shutdown"`

	v *viper.Viper
}

type CourtConfig struct {
	URL              string        `mapstructure:"url" validate:"required,url"`
	RoomID           string        `mapstructure:"room_id"`
	Origin           string        `mapstructure:"origin"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" validate:"gt=0"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ReadLimit        int64         `mapstructure:"read_limit" validate:"gte=0"`
	SendBuffer       int           `mapstructure:"send_buffer" validate:"min=1"`
	SelfPing         bool          `mapstructure:"self_ping"`
}

type IdentityConfig struct {
	BaseName      string `mapstructure:"base_name" validate:"required,max=30"`
	SpeakerSuffix string `mapstructure:"speaker_suffix" validate:"max=29"`
	CharacterID   int    `mapstructure:"character_id"`
	PoseID        int    `mapstructure:"pose_id"`
}

type ReconnectConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gt=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay" validate:"gtefield=BaseDelay"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1"`
}

type VoteConfig struct {
	RequiredApprovals int           `mapstructure:"required_approvals" validate:"min=1"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Marker            string        `mapstructure:"marker" validate:"required"`
	SelfID            string        `mapstructure:"self_id"`
	ProposalLimit     int           `mapstructure:"proposal_limit" validate:"min=1"`
	ProposalInterval  time.Duration `mapstructure:"proposal_interval" validate:"gt=0"`
}

type RoomConfig struct {
	RejoinWindow time.Duration `mapstructure:"rejoin_window" validate:"gte=0"`
}

type ShutdownConfig struct {
	Grace   time.Duration `mapstructure:"grace" validate:"gte=0"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults when
// the file is missing.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("COURTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("court", cfg.Court.URL).Msg("config ready")
	return cfg, nil
}

// Watch calls fn with the re-read config each time the file changes.
// Invalid edits are logged and skipped.
func (c *Config) Watch(fn func(*Config)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(c.v)
		if err != nil {
			log.Error().Err(err).Str("module", "config").Str("file", e.Name).Msg("ignoring invalid config change")
			return
		}
		log.Info().Str("module", "config").Str("file", e.Name).Msg("config changed")
		fn(next)
	})
	c.v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.v = v
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "")
	v.SetDefault("api_token", "")

	v.SetDefault("court.url", "wss://objection.lol/courtroom-api/socket.io/")
	v.SetDefault("court.room_id", "")
	v.SetDefault("court.origin", "")
	v.SetDefault("court.handshake_timeout", "10s")
	v.SetDefault("court.write_timeout", "5s")
	v.SetDefault("court.read_limit", 1<<20)
	v.SetDefault("court.send_buffer", 64)
	v.SetDefault("court.self_ping", false)

	v.SetDefault("identity.base_name", "Bridge")
	v.SetDefault("identity.speaker_suffix", "")
	v.SetDefault("identity.character_id", 1)
	v.SetDefault("identity.pose_id", 1)

	v.SetDefault("reconnect.enabled", true)
	v.SetDefault("reconnect.base_delay", "1s")
	v.SetDefault("reconnect.max_delay", "60s")
	v.SetDefault("reconnect.max_attempts", 10)

	v.SetDefault("vote.required_approvals", 3)
	v.SetDefault("vote.timeout", "60s")
	v.SetDefault("vote.marker", "✅")
	v.SetDefault("vote.self_id", "")
	v.SetDefault("vote.proposal_limit", 3)
	v.SetDefault("vote.proposal_interval", "5m")

	v.SetDefault("room.rejoin_window", "30s")

	v.SetDefault("shutdown.grace", "500ms")
	v.SetDefault("shutdown.timeout", "5s")
}
