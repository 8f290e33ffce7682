package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	PublicDir         string        `mapstructure:"public_dir" yaml:"public_dir"`
	UploadsDir        string        `mapstructure:"uploads_dir" yaml:"uploads_dir"`
	AllowlistPath     string        `mapstructure:"allowlist_path" yaml:"allowlist_path"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		PublicDir:         "public",
		UploadsDir:        "uploads",
		AllowlistPath:     "allowed_ips.txt",
		MaxUploadBytes:    64 << 20,
	}
}
