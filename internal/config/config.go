package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DatabaseSQLite = "sqlite"
	DatabaseMongo  = "mongo"

	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr          string
		Port          string
		AllowedOrigin string
		MaxUploadMB   int64
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string
		Path   string
		URI    string
		Name   string
	}
	Storage struct {
		Driver    string
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
		UseSSL    bool
		PublicURL string
		Folder    string
		Transform string
	}
	AWS struct {
		Profile string
	}
	Auth struct {
		JWTSecret        string
		TokenTTL         time.Duration
		RegisterPassword string
		AdminEmail       string
		AdminPassword    string
	}
}

// ListenAddr prefers an explicit PORT over server.addr.
func (c Config) ListenAddr() string {
	if port := strings.TrimSpace(c.Server.Port); port != "" {
		return ":" + port
	}
	return c.Server.Addr
}

// Validate reports configuration the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	switch c.Database.Driver {
	case DatabaseSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case DatabaseMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("database uri is required for mongo")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageS3, StorageMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if c.Storage.Driver == StorageMinio && c.Storage.Endpoint == "" {
		return fmt.Errorf("storage endpoint is required for minio")
	}
	return nil
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("GALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.port", "")
	v.SetDefault("server.allowedorigin", "http://localhost:5173")
	v.SetDefault("server.maxuploadmb", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DatabaseSQLite)
	v.SetDefault("database.path", "data/gallery.db")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "gallery")
	v.SetDefault("storage.driver", StorageS3)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.usessl", true)
	v.SetDefault("storage.publicurl", "")
	v.SetDefault("storage.folder", "sekani")
	v.SetDefault("storage.transform", "q_10,f_auto,w_1200")
	v.SetDefault("aws.profile", "")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", "168h")
	v.SetDefault("auth.registerpassword", "")
	v.SetDefault("auth.adminemail", "")
	v.SetDefault("auth.adminpassword", "")

	// conventional unprefixed names used by hosting platforms
	_ = v.BindEnv("server.port", "PORT", "GALLERY_SERVER_PORT")
	_ = v.BindEnv("auth.jwtsecret", "GALLERY_AUTH_JWTSECRET", "JWT_SECRET")
	_ = v.BindEnv("database.uri", "GALLERY_DATABASE_URI", "MONGO_URI")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return cfg, nil
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
