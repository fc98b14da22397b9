package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Registry backends.
const (
	RegistryBackendFile   = "file"
	RegistryBackendRedis  = "redis"
	RegistryBackendMemory = "memory"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	CORSOrigin      string
	MaxBodyBytes    int64
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
	DataDir         string
	Registry        Registry
	Forms           Forms
	Redis           RedisConfig
	Log             Log
}

// Registry selects where the identifier whitelist is persisted.
type Registry struct {
	Backend  string
	File     string
	RedisKey string
}

// Forms selects the blob backend for form records.
type Forms struct {
	Driver string
	S3     S3Config
}

// S3Config holds the S3 form store settings.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// RedisConfig holds Redis connection settings for the redis registry backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Log configures the slog handler.
type Log struct {
	Level  string
	Format string
}

// RegistryPath is the registry file location inside the data directory.
func (s Server) RegistryPath() string {
	if filepath.IsAbs(s.Registry.File) {
		return s.Registry.File
	}
	return filepath.Join(s.DataDir, s.Registry.File)
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	port := getEnv("PORT", "5000")

	return Server{
		Addr:            ":" + port,
		CORSOrigin:      getEnv("FORMGATE_CORS_ORIGIN", "http://localhost:3000"),
		MaxBodyBytes:    getEnvInt64("FORMGATE_MAX_BODY_BYTES", 100*1024),
		MetricsEnabled:  getEnvBool("FORMGATE_METRICS_ENABLED", true),
		ShutdownTimeout: getEnvDuration("FORMGATE_SHUTDOWN_TIMEOUT", 10*time.Second),
		DataDir:         getEnv("FORMGATE_DATA_DIR", "."),
		Registry: Registry{
			Backend:  strings.ToLower(getEnv("FORMGATE_REGISTRY_BACKEND", RegistryBackendFile)),
			File:     getEnv("FORMGATE_REGISTRY_FILE", "validIDs.json"),
			RedisKey: getEnv("FORMGATE_REDIS_KEY", "formgate:valid_ids"),
		},
		Forms: Forms{
			Driver: strings.ToLower(getEnv("FORMGATE_FORM_DRIVER", "fs")),
			S3: S3Config{
				Bucket:    os.Getenv("FORMGATE_S3_BUCKET"),
				Region:    getEnv("FORMGATE_S3_REGION", "us-east-1"),
				Endpoint:  os.Getenv("FORMGATE_S3_ENDPOINT"),
				PathStyle: getEnvBool("FORMGATE_S3_PATH_STYLE", false),
				Prefix:    os.Getenv("FORMGATE_S3_PREFIX"),
			},
		},
		Redis: RedisConfig{
			URL:          os.Getenv("FORMGATE_REDIS_URL"),
			PoolSize:     int(getEnvInt64("FORMGATE_REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(getEnvInt64("FORMGATE_REDIS_MIN_IDLE_CONNS", 1)),
			DialTimeout:  getEnvDuration("FORMGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("FORMGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("FORMGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Log: Log{
			Level:  getEnv("FORMGATE_LOG_LEVEL", "info"),
			Format: getEnv("FORMGATE_LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
