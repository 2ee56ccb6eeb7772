package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr           string
	RateLimitPerMinute int
	SessionSecret      string
	SecureCookies      bool
	CORSOrigins        []string
	LogLevel           string
	LogFormat          string
	Database           Database
	Blob               Blob
}

type Database struct {
	Driver       string // mysql, postgres or sqlite
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	Path         string // sqlite only
	MaxOpenConns int
}

type Blob struct {
	Driver          string // s3 or minio
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	PublicURL       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":80")
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "root")
	v.SetDefault("db_pass", "")
	v.SetDefault("db_name", "gallerydb")
	v.SetDefault("db_path", "gallery.db")
	v.SetDefault("db_max_open_conns", 10)

	v.SetDefault("blob_driver", "s3")
	v.SetDefault("bucket_name", "photo-gallery")
	v.SetDefault("blob_endpoint", "https://storage.googleapis.com")
	v.SetDefault("blob_region", "auto")
	v.SetDefault("access_key_id", "")
	v.SetDefault("access_key_secret", "")
	v.SetDefault("public_url", "https://storage.googleapis.com")
}

// Load reads an optional .env file into the process environment and then
// resolves every setting from the environment, falling back to defaults.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// GCS_BUCKET is the name older deployments used.
	if err := v.BindEnv("bucket_name", "BUCKET_NAME", "GCS_BUCKET"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:           v.GetString("http_addr"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		SessionSecret:      v.GetString("session_secret"),
		SecureCookies:      v.GetBool("cookie_secure"),
		CORSOrigins:        splitList(v.GetString("cors_allowed_origins")),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		Database: Database{
			Driver:       strings.ToLower(v.GetString("db_driver")),
			Host:         v.GetString("db_host"),
			Port:         v.GetInt("db_port"),
			User:         v.GetString("db_user"),
			Password:     v.GetString("db_pass"),
			Name:         v.GetString("db_name"),
			Path:         v.GetString("db_path"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
		},
		Blob: Blob{
			Driver:          strings.ToLower(v.GetString("blob_driver")),
			Bucket:          v.GetString("bucket_name"),
			Endpoint:        v.GetString("blob_endpoint"),
			Region:          v.GetString("blob_region"),
			AccessKeyID:     v.GetString("access_key_id"),
			AccessKeySecret: v.GetString("access_key_secret"),
			PublicURL:       v.GetString("public_url"),
		},
	}

	if cfg.Database.Password == "" && cfg.Database.Driver != "sqlite" {
		slog.Warn("DB_PASS is empty")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
