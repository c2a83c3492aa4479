// Package config はアプリケーション設定を環境変数と.envファイルから読み込みます。
package config

import (
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	infradb "snapgram/internal/platform/db"
	infraredis "snapgram/internal/platform/redis"
)

// Appwrite holds the BaaS project settings.
type Appwrite struct {
	URL               string
	ProjectID         string
	DatabaseID        string
	StorageID         string
	UserCollectionID  string
	SavesCollectionID string
	PostCollectionID  string
	Timeout           time.Duration
}

// Config holds application level configuration.
type Config struct {
	ServerAddr string
	Appwrite   Appwrite

	JWTSecret      string
	ClientTokenTTL time.Duration
	CookieSecure   bool

	Redis            infraredis.Config
	DB               infradb.Config
	DBConnectTimeout time.Duration
	RunMigrations    bool

	// StateTTL is how long a client's persisted auth state outlives its last update.
	StateTTL time.Duration
	// StoreIdleTTL is how long an unused client state stays in memory.
	StoreIdleTTL  time.Duration
	SweepInterval time.Duration

	// AuthRateLimit is the number of sign-in/sign-up submissions allowed
	// per client IP within AuthRateWindow. 0 disables the limit.
	AuthRateLimit  int
	AuthRateWindow time.Duration

	CORSOrigins []string
	// TrustedProxies are the reverse proxies allowed to set X-Forwarded-For.
	TrustedProxies []string
	SideImageURL   string
}

var defaults = map[string]any{
	"SERVER_ADDR":                  ":8080",
	"APPWRITE_URL":                 "",
	"APPWRITE_PROJECT_ID":          "",
	"APPWRITE_DATABASE_ID":         "",
	"APPWRITE_STORAGE_ID":          "",
	"APPWRITE_USER_COLLECTION_ID":  "",
	"APPWRITE_SAVES_COLLECTION_ID": "",
	"APPWRITE_POST_COLLECTION_ID":  "",
	"APPWRITE_TIMEOUT":             "10s",
	"JWT_SECRET":                   "",
	"CLIENT_TOKEN_TTL":             "720h",
	"COOKIE_SECURE":                false,
	"REDIS_HOST":                   "localhost",
	"REDIS_PORT":                   "6379",
	"REDIS_PASSWORD":               "",
	"DB_DRIVER":                    infradb.DriverSQLite,
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "",
	"DB_PASSWORD":                  "",
	"DB_NAME":                      "snapgram",
	"DB_SSLMODE":                   "disable",
	"SQLITE_PATH":                  "snapgram.db",
	"DB_CONNECT_TIMEOUT":           "60s",
	"RUN_MIGRATIONS":               true,
	"STATE_TTL":                    "720h",
	"STORE_IDLE_TTL":               "30m",
	"SWEEP_INTERVAL":               "1m",
	"AUTH_RATE_LIMIT":              20,
	"AUTH_RATE_WINDOW":             "1m",
	"CORS_ORIGINS":                 "",
	"TRUSTED_PROXIES":              "",
	"SIDE_IMAGE_URL":               "",
}

// Load は.envファイル（任意）と環境変数から設定を読み込みます。
// 既に設定されている環境変数は.envの値で上書きされません。
func Load(envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Info(".env not found; using system environment variables", "path", envFile)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := Config{
		ServerAddr: v.GetString("SERVER_ADDR"),
		Appwrite: Appwrite{
			URL:               v.GetString("APPWRITE_URL"),
			ProjectID:         v.GetString("APPWRITE_PROJECT_ID"),
			DatabaseID:        v.GetString("APPWRITE_DATABASE_ID"),
			StorageID:         v.GetString("APPWRITE_STORAGE_ID"),
			UserCollectionID:  v.GetString("APPWRITE_USER_COLLECTION_ID"),
			SavesCollectionID: v.GetString("APPWRITE_SAVES_COLLECTION_ID"),
			PostCollectionID:  v.GetString("APPWRITE_POST_COLLECTION_ID"),
			Timeout:           v.GetDuration("APPWRITE_TIMEOUT"),
		},
		JWTSecret:      v.GetString("JWT_SECRET"),
		ClientTokenTTL: v.GetDuration("CLIENT_TOKEN_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		Redis: infraredis.Config{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		DB: infradb.Config{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		StateTTL:         v.GetDuration("STATE_TTL"),
		StoreIdleTTL:     v.GetDuration("STORE_IDLE_TTL"),
		SweepInterval:    v.GetDuration("SWEEP_INTERVAL"),
		AuthRateLimit:    v.GetInt("AUTH_RATE_LIMIT"),
		AuthRateWindow:   v.GetDuration("AUTH_RATE_WINDOW"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		TrustedProxies:   splitList(v.GetString("TRUSTED_PROXIES")),
		SideImageURL:     v.GetString("SIDE_IMAGE_URL"),
	}
	return cfg
}

// Validate は必須項目が揃っているかを検証します。
func (c Config) Validate() error {
	var errs []error
	required := []struct{ key, value string }{
		{"APPWRITE_URL", c.Appwrite.URL},
		{"APPWRITE_PROJECT_ID", c.Appwrite.ProjectID},
		{"APPWRITE_DATABASE_ID", c.Appwrite.DatabaseID},
		{"APPWRITE_USER_COLLECTION_ID", c.Appwrite.UserCollectionID},
		{"JWT_SECRET", c.JWTSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, errors.New(r.key+" is not set"))
		}
	}
	positive := []struct {
		key   string
		value time.Duration
	}{
		{"APPWRITE_TIMEOUT", c.Appwrite.Timeout},
		{"CLIENT_TOKEN_TTL", c.ClientTokenTTL},
		{"SWEEP_INTERVAL", c.SweepInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, errors.New(p.key+" must be a positive duration"))
		}
	}
	for _, p := range c.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, errors.New("TRUSTED_PROXIES has an invalid IP or CIDR: "+p))
		}
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.AuthRateLimit > 0 && c.AuthRateWindow <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_WINDOW must be a positive duration"))
	}
	return errors.Join(errs...)
}

func validProxy(p string) bool {
	if strings.Contains(p, "/") {
		_, _, err := net.ParseCIDR(p)
		return err == nil
	}
	return net.ParseIP(p) != nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
