package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		// SecretKey signs the app session tokens (HS256).
		SecretKey string

		// AdminEmails is the set of addresses granted the admin role.
		// Role is recomputed from this set on every request; it is never stored.
		AdminEmails []string

		FrontendBaseURL  string
		DefaultFromName  string
		DefaultFromEmail string
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
		Identity IdentityConfig
		Chat     ChatConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		DebugHost          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	// DatabaseConfig points at the SurrealDB instance holding the
	// notes, subjects and subscriptions collections.
	DatabaseConfig struct {
		URL       string // ws://host:port/rpc
		Namespace string
		Name      string
		User      string
		Password  string
	}

	// StorageConfig holds the Backblaze B2 credentials for note files.
	StorageConfig struct {
		AccountID string
		AppKey    string
		Bucket    string
	}

	// IdentityConfig points at the external identity provider's
	// token-verification endpoint.
	IdentityConfig struct {
		VerifyURL string
		APIKey    string
		Timeout   time.Duration
	}

	// ChatConfig points at the chat-completion endpoint answering
	// student questions over their notes.
	ChatConfig struct {
		BaseURL string
		APIKey  string
		Model   string
		Timeout time.Duration
	}
)

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) DefaultFromAddr() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromEmail}
}

// IsAdminEmail reports whether email belongs to the configured admin set.
func (c *Config) IsAdminEmail(email string) bool {
	email = CleanString(email, true /* lower */)
	for _, adm := range c.AdminEmails {
		if adm == email {
			return true
		}
	}
	return false
}

// NewConfig loads configuration from the environment with an optional
// `config/.env.<env>` overlay. ENV selects DEV (local; default), TEST, QA or PROD.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "OpenNotes")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "x2m)1u^bq#ke$+57=dz&8wg5_zr7(h!v)4c9(#yf0h^$tegm3emy")
	v.SetDefault("adminEmails", "admin@opennotes.local")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromName", "OpenNotes")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("databaseURL", "ws://localhost:8001/rpc")
	v.SetDefault("databaseNamespace", "opennotes")
	v.SetDefault("databaseName", "opennotes")
	v.SetDefault("databaseUser", "root")
	v.SetDefault("databasePassword", "root")
	v.SetDefault("identityTimeout", 10*time.Second)
	v.SetDefault("chatBaseURL", "https://api.openai.com/v1")
	v.SetDefault("chatModel", "gpt-4o-mini")
	v.SetDefault("chatTimeout", 60*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		AdminEmails:      splitAndClean(v.GetString("adminEmails")),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromName:  v.GetString("defaultFromName"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetString("serverPort"),
			DebugHost:          v.GetString("serverDebugHost"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			URL:       v.GetString("databaseURL"),
			Namespace: v.GetString("databaseNamespace"),
			Name:      v.GetString("databaseName"),
			User:      v.GetString("databaseUser"),
			Password:  v.GetString("databasePassword"),
		},
		Storage: StorageConfig{
			AccountID: v.GetString("storageAccountID"),
			AppKey:    v.GetString("storageAppKey"),
			Bucket:    v.GetString("storageBucket"),
		},
		Identity: IdentityConfig{
			VerifyURL: v.GetString("identityVerifyURL"),
			APIKey:    v.GetString("identityAPIKey"),
			Timeout:   v.GetDuration("identityTimeout"),
		},
		Chat: ChatConfig{
			BaseURL: v.GetString("chatBaseURL"),
			APIKey:  v.GetString("chatAPIKey"),
			Model:   v.GetString("chatModel"),
			Timeout: v.GetDuration("chatTimeout"),
		},
	}
}

func splitAndClean(s string) []string {
	parts := strings.Split(s, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p, true); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
