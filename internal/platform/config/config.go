// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Registry defaults applied when the environment leaves them unset.
const (
	DefaultMaxSubmissions = 10_000
	DefaultSubmissionFee  = 500
)

// Config captures everything registryd needs at startup. Empty backend URLs
// mean the corresponding backend is not wired (memory store, no cache, no
// broker).
type Config struct {
	OpsAddr        string
	MaxSubmissions uint64
	SubmissionFee  uint64
	Authority      string

	PostgresURL string
	RedisURL    string

	KafkaBrokers []string
	AuditTopic   string

	RegistrarSigningKey  string
	RegistrarCredentials []string
}

// FromEnv reads configuration from RELIEF_* environment variables.
func FromEnv() Config {
	cfg := Config{
		OpsAddr:        envOr("RELIEF_OPS_ADDR", ":8080"),
		MaxSubmissions: envUintOr("RELIEF_MAX_SUBMISSIONS", DefaultMaxSubmissions),
		SubmissionFee:  envUintOr("RELIEF_SUBMISSION_FEE", DefaultSubmissionFee),
		Authority:      os.Getenv("RELIEF_AUTHORITY"),
		PostgresURL:    os.Getenv("RELIEF_POSTGRES_URL"),
		RedisURL:       os.Getenv("RELIEF_REDIS_URL"),
		AuditTopic:     envOr("RELIEF_AUDIT_TOPIC", "relief.registry.audit"),
	}

	if brokers := os.Getenv("RELIEF_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	cfg.RegistrarSigningKey = os.Getenv("RELIEF_REGISTRAR_KEY")
	if creds := os.Getenv("RELIEF_REGISTRAR_CREDENTIALS"); creds != "" {
		cfg.RegistrarCredentials = splitList(creds)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUintOr(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
