package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	SecretKey       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	IdentityCacheTTL time.Duration

	PasswordPepper string

	// Testing skips email verification enforcement and outbound mail.
	Testing bool

	HTTPAddress string
	BaseURL     string

	AllowedOrigins   []string
	AllowCredentials bool

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
	MailFromName string

	CloudinaryURL string
}

var hmacAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	keys := []string{
		"DATABASE_URL", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"SECRET_KEY", "JWT_ALGORITHM", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		"IDENTITY_CACHE_TTL", "PASSWORD_PEPPER", "TESTING",
		"HTTP_ADDRESS", "BASE_URL", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
		"MAIL_HOST", "MAIL_PORT", "MAIL_USERNAME", "MAIL_PASSWORD",
		"MAIL_FROM", "MAIL_FROM_NAME", "CLOUDINARY_URL",
	}
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("JWT_ALGORITHM", "HS256")
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("IDENTITY_CACHE_TTL", "1h")
	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RedisAddress:     viper.GetString("REDIS_ADDRESS"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		RedisDB:          viper.GetInt("REDIS_DB"),
		SecretKey:        viper.GetString("SECRET_KEY"),
		JWTAlgorithm:     viper.GetString("JWT_ALGORITHM"),
		AccessTokenTTL:   viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:  viper.GetDuration("REFRESH_TOKEN_TTL"),
		IdentityCacheTTL: viper.GetDuration("IDENTITY_CACHE_TTL"),
		PasswordPepper:   viper.GetString("PASSWORD_PEPPER"),
		Testing:          viper.GetBool("TESTING"),
		HTTPAddress:      viper.GetString("HTTP_ADDRESS"),
		BaseURL:          viper.GetString("BASE_URL"),
		AllowedOrigins:   viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: viper.GetBool("ALLOW_CREDENTIALS"),
		MailHost:         viper.GetString("MAIL_HOST"),
		MailPort:         viper.GetInt("MAIL_PORT"),
		MailUsername:     viper.GetString("MAIL_USERNAME"),
		MailPassword:     viper.GetString("MAIL_PASSWORD"),
		MailFrom:         viper.GetString("MAIL_FROM"),
		MailFromName:     viper.GetString("MAIL_FROM_NAME"),
		CloudinaryURL:    viper.GetString("CLOUDINARY_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	if cfg.RedisAddress == "" {
		return nil, fmt.Errorf("REDIS_ADDRESS is required")
	}
	if !hmacAlgorithms[cfg.JWTAlgorithm] {
		return nil, fmt.Errorf("JWT_ALGORITHM must be one of HS256, HS384, HS512, got %q", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}

	return cfg, nil
}
