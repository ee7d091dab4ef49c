package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	RoomCodeLength     int           `mapstructure:"room_code_length" yaml:"room_code_length"`
	RoomIdleTTL        time.Duration `mapstructure:"room_idle_ttl" yaml:"room_idle_ttl"`
	MaxHistoryMessages int           `mapstructure:"max_history_messages" yaml:"max_history_messages"`
	MaxHistoryFiles    int           `mapstructure:"max_history_files" yaml:"max_history_files"`
	MaxFileBytes       int64         `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
	SendBuffer         int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	MessageRateLimit   int           `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
}

// Default returns configuration with reasonable starter defaults. Zero values
// for the TTL, caps, and rate limit leave those features disabled.
func Default() Config {
	return Config{
		Addr:              ":3001",
		AllowedOrigins:    []string{"*"},
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		RoomCodeLength:    5,
		SendBuffer:        32,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.RoomCodeLength != 0 {
		c.RoomCodeLength = other.RoomCodeLength
	}
	if other.RoomIdleTTL != 0 {
		c.RoomIdleTTL = other.RoomIdleTTL
	}
	if other.MaxHistoryMessages != 0 {
		c.MaxHistoryMessages = other.MaxHistoryMessages
	}
	if other.MaxHistoryFiles != 0 {
		c.MaxHistoryFiles = other.MaxHistoryFiles
	}
	if other.MaxFileBytes != 0 {
		c.MaxFileBytes = other.MaxFileBytes
	}
	if other.SendBuffer != 0 {
		c.SendBuffer = other.SendBuffer
	}
	if other.MessageRateLimit != 0 {
		c.MessageRateLimit = other.MessageRateLimit
	}
}
