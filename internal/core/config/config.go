package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the API server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the Redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Admin holds the operator panel credentials and session settings.
	Admin AdminConfig `mapstructure:",squash"`

	// History holds donation history retention settings.
	History HistoryConfig `mapstructure:",squash"`

	// Overlay holds the overlay client settings.
	Overlay OverlayConfig `mapstructure:",squash"`
}

// RedisConfig holds the Redis connection details.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// AdminConfig holds the operator credentials used by the admin panel.
type AdminConfig struct {
	// Username is the operator login name.
	Username string `mapstructure:"ADMIN_USERNAME" required:"true"`
	// Password is the operator login password.
	Password string `mapstructure:"ADMIN_PASSWORD" required:"true"`
	// SessionTTLMinutes is how long an issued bearer token stays valid.
	SessionTTLMinutes int `mapstructure:"ADMIN_SESSION_TTL_MINUTES" default:"720"`
}

// HistoryConfig holds donation history retention settings.
type HistoryConfig struct {
	// MaxEntries caps the stored donation history list.
	MaxEntries int `mapstructure:"HISTORY_MAX_ENTRIES" default:"200"`
}

// OverlayConfig holds the settings for the headless overlay client.
type OverlayConfig struct {
	// ServerURL is the base URL of the API server. The websocket URL is
	// derived from it (http -> ws, https -> wss).
	ServerURL string `mapstructure:"OVERLAY_SERVER_URL" default:"http://localhost:8080"`
	// ReconnectDelayMS is the fixed delay between reconnect attempts.
	ReconnectDelayMS int `mapstructure:"OVERLAY_RECONNECT_DELAY_MS" default:"2000"`
	// AudioCommand is the external command used for background alert audio.
	// Empty disables audio playback.
	AudioCommand string `mapstructure:"OVERLAY_AUDIO_CMD" default:""`
	// NarrationCommand is the external text-to-speech command (e.g. espeak).
	// The narration text is passed as the last argument. Empty disables narration.
	NarrationCommand string `mapstructure:"OVERLAY_NARRATION_CMD" default:""`
	// VideoCommand is the external video player command (e.g. ffplay).
	// The media URL is passed as the last argument. Empty disables native video.
	VideoCommand string `mapstructure:"OVERLAY_VIDEO_CMD" default:""`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
