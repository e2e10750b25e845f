package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Store    StoreConfig    `mapstructure:"store"    validate:"required"`
	Dispatch DispatchConfig `mapstructure:"dispatch" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig contains the snapshot persistence settings.
type StoreConfig struct {
	// Path is the sqlite database file holding the state snapshot.
	Path string `mapstructure:"path" validate:"required"`
}

// DispatchConfig contains the asynchronous dispatch settings.
type DispatchConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
}

// UploadConfig contains the image upload settings.
type UploadConfig struct {
	// MaxBytes caps the accepted upload size.
	MaxBytes int64 `mapstructure:"max_bytes" validate:"required,gt=0"`
}
