package config

import (
	"os"
	"time"
)

// Default issuance horizons. The mobile API and the admin web surface carry
// independent policies; neither derives from the other.
var (
	MobileSessionTTL = 30 * 24 * time.Hour
	AdminSessionTTL  = 24 * time.Hour
)

// Server captures process-level configuration for the backend.
type Server struct {
	Addr              string
	SessionSigningKey string
	GoogleClientID    string
	GoogleIssuer      string
	DatabaseURL       string
	MobileSessionTTL  time.Duration
	AdminSessionTTL   time.Duration
	Environment       string
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Presence of the signing key is checked by the caller: a missing key is a
// startup-fatal condition, not a default to paper over.
func FromEnv() Server {
	addr := os.Getenv("WELLSPRING_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	issuer := os.Getenv("GOOGLE_ISSUER")
	if issuer == "" {
		issuer = "https://accounts.google.com"
	}

	mobileTTL := MobileSessionTTL
	if v := os.Getenv("MOBILE_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			mobileTTL = d
		}
	}

	adminTTL := AdminSessionTTL
	if v := os.Getenv("ADMIN_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			adminTTL = d
		}
	}

	env := os.Getenv("WELLSPRING_ENV")
	if env == "" {
		env = "dev"
	}

	return Server{
		Addr:              addr,
		SessionSigningKey: os.Getenv("SESSION_SIGNING_KEY"),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleIssuer:      issuer,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MobileSessionTTL:  mobileTTL,
		AdminSessionTTL:   adminTTL,
		Environment:       env,
	}
}
