package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Contact   ContactConfig
	Mail      MailConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Path string
}

type ContactConfig struct {
	Recipient      string
	PrivacyContact string
	RateLimitMax   int
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	CC       string
	BCC      string
}

type RetentionConfig struct {
	ContactDays int
	GDPRDays    int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", 4000)
	v.SetDefault("site_db_path", "data/contact_messages")
	v.SetDefault("contact_recipient", "office@activcleaning.ro")
	v.SetDefault("privacy_contact", "privacy@activcleaning.ro")
	v.SetDefault("rate_limit_max", 10)
	v.SetDefault("retention_days", 730)
	v.SetDefault("gdpr_request_retention_days", 365)
	v.SetDefault("allowed_origins", "")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 0)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("contact_cc", "")
	v.SetDefault("contact_bcc", "")

	port := v.GetInt("port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %d", port)
	}

	rateLimitMax := v.GetInt("rate_limit_max")
	if rateLimitMax <= 0 {
		rateLimitMax = 10
	}

	retentionDays := v.GetInt("retention_days")
	if retentionDays < 0 {
		retentionDays = 0
	}

	gdprRetentionDays := v.GetInt("gdpr_request_retention_days")
	if gdprRetentionDays < 0 {
		gdprRetentionDays = 0
	}

	cfg := Config{
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: splitOrigins(v.GetString("allowed_origins")),
		},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("site_db_path")),
		},
		Contact: ContactConfig{
			Recipient:      strings.TrimSpace(v.GetString("contact_recipient")),
			PrivacyContact: strings.TrimSpace(v.GetString("privacy_contact")),
			RateLimitMax:   rateLimitMax,
		},
		Mail: MailConfig{
			Host:     strings.TrimSpace(v.GetString("smtp_host")),
			Port:     v.GetInt("smtp_port"),
			User:     strings.TrimSpace(v.GetString("smtp_user")),
			Password: v.GetString("smtp_pass"),
			CC:       strings.TrimSpace(v.GetString("contact_cc")),
			BCC:      strings.TrimSpace(v.GetString("contact_bcc")),
		},
		Retention: RetentionConfig{
			ContactDays: retentionDays,
			GDPRDays:    gdprRetentionDays,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/contact_messages"
	}

	return cfg, nil
}

// Configured reports whether the outbound mail channel has a complete set of
// credentials. Without them the notifier stays disabled.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.Port > 0 && m.User != "" && m.Password != ""
}

func splitOrigins(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
