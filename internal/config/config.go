package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log_level"`
	StaticPath     string        `mapstructure:"static_path"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Rooms          RoomsConfig   `mapstructure:"rooms"`
	Game           GameConfig    `mapstructure:"game"`
	Signal         SignalConfig  `mapstructure:"signal"`
}

type RoomsConfig struct {
	MaxPlayers    int `mapstructure:"max_players"`
	CodeAttempts  int `mapstructure:"code_attempts"`
	MaxChatLength int `mapstructure:"max_chat_length"`
}

type GameConfig struct {
	Tick        time.Duration `mapstructure:"tick"`
	Countdown   int           `mapstructure:"countdown"`
	DrawingTime int           `mapstructure:"drawing_time"`
	CaptionTime int           `mapstructure:"caption_time"`
}

type SignalConfig struct {
	MessageRate  float64       `mapstructure:"message_rate"`
	MessageBurst int           `mapstructure:"message_burst"`
	JoinRate     int           `mapstructure:"join_rate"`
	JoinWindow   time.Duration `mapstructure:"join_window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_path", "./web")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)

	v.SetDefault("rooms.max_players", 8)
	v.SetDefault("rooms.code_attempts", 16)
	v.SetDefault("rooms.max_chat_length", 500)

	v.SetDefault("game.tick", "1s")
	v.SetDefault("game.countdown", 3)
	v.SetDefault("game.drawing_time", 90)
	v.SetDefault("game.caption_time", 60)

	v.SetDefault("signal.message_rate", 20)
	v.SetDefault("signal.message_burst", 40)
	v.SetDefault("signal.join_rate", 10)
	v.SetDefault("signal.join_window", "1m")
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default). Every key can
// be overridden from the environment, e.g. DOODLE_ROOMS_MAX_PLAYERS.
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
	v.SetEnvPrefix("DOODLE")
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

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Int("max_players", cfg.Rooms.MaxPlayers).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rooms.MaxPlayers < 2 {
		return fmt.Errorf("rooms.max_players must be at least 2, got %d", c.Rooms.MaxPlayers)
	}
	if c.Game.Tick <= 0 {
		return fmt.Errorf("game.tick must be positive, got %s", c.Game.Tick)
	}
	if c.Game.Countdown <= 0 || c.Game.DrawingTime <= 0 || c.Game.CaptionTime <= 0 {
		return errors.New("game timers must be positive")
	}
	return nil
}
