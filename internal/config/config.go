package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string
	DiscordToken     string
	DiscordGuildID   string
	DatabaseURL      string
	DataDir          string
	Timezone         string
	OpenAIAPIKey     string
	OpenAIModel      string
	OracleTimeoutSec int
	ExpiryPollSec    int
	CrossRoundDedup  bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.DatabaseURL == "" && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required when DATABASE_URL is not set")
	}
	if c.ExpiryPollSec <= 0 {
		return fmt.Errorf("EXPIRY_POLL_SEC must be positive, got %d", c.ExpiryPollSec)
	}
	if c.OracleTimeoutSec <= 0 {
		return fmt.Errorf("ORACLE_TIMEOUT_SEC must be positive, got %d", c.OracleTimeoutSec)
	}
	if c.Timezone == "" {
		return fmt.Errorf("TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) OracleEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) ExpiryPollInterval() time.Duration {
	return time.Duration(c.ExpiryPollSec) * time.Second
}

func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutSec) * time.Second
}
