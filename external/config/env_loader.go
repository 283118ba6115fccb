package config

import (
	"fmt"

	internalconfig "github.com/auberginewly/feihualing/internal/config"
	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	Env              string `env:"ENV" envDefault:"production"`
	DiscordToken     string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID   string `env:"DISCORD_GUILD_ID,required"`
	DatabaseURL      string `env:"DATABASE_URL"`
	DataDir          string `env:"DATA_DIR" envDefault:"data/feihualing"`
	Timezone         string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OracleTimeoutSec int    `env:"ORACLE_TIMEOUT_SEC" envDefault:"5"`
	ExpiryPollSec    int    `env:"EXPIRY_POLL_SEC" envDefault:"5"`
	CrossRoundDedup  bool   `env:"CROSS_ROUND_DEDUP" envDefault:"false"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:              raw.Env,
		DiscordToken:     raw.DiscordToken,
		DiscordGuildID:   raw.DiscordGuildID,
		DatabaseURL:      raw.DatabaseURL,
		DataDir:          raw.DataDir,
		Timezone:         raw.Timezone,
		OpenAIAPIKey:     raw.OpenAIAPIKey,
		OpenAIModel:      raw.OpenAIModel,
		OracleTimeoutSec: raw.OracleTimeoutSec,
		ExpiryPollSec:    raw.ExpiryPollSec,
		CrossRoundDedup:  raw.CrossRoundDedup,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
