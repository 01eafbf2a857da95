package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration loaded from config.yaml at startup.
// Secrets (DISCORD_TOKEN, TRADIER_TOKEN, OPENAI_API_KEY) come from the
// environment, never from this file. The risk parameters live in their own
// mutable document; see the riskcfg package.
type Config struct {
	Mode   string `yaml:"mode"`   // DRY_RUN or LIVE
	Source string `yaml:"source"` // DISCORD or REPLAY

	Discord struct {
		GuildID   string `yaml:"guild_id"`
		ChannelID string `yaml:"channel_id"`
	} `yaml:"discord"`

	ReplayFile string `yaml:"replay_file"`

	Tradier struct {
		BaseURL   string `yaml:"base_url"`
		AccountID string `yaml:"account_id"`
		Duration  string `yaml:"duration"` // day or gtc
	} `yaml:"tradier"`

	Extractor struct {
		Provider    string  `yaml:"provider"` // OPENAI or PATTERN
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"extractor"`

	RiskConfigPath string `yaml:"risk_config_path"`

	Web struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"web"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Source != "DISCORD" && c.Source != "REPLAY" {
		return fmt.Errorf("invalid source '%s': must be 'DISCORD' or 'REPLAY'", c.Source)
	}
	if c.Source == "DISCORD" && (c.Discord.GuildID == "" || c.Discord.ChannelID == "") {
		return fmt.Errorf("discord source requires discord.guild_id and discord.channel_id")
	}
	if c.Mode == "LIVE" && c.Tradier.AccountID == "" {
		return fmt.Errorf("LIVE mode requires tradier.account_id")
	}
	if c.Extractor.Provider != "OPENAI" && c.Extractor.Provider != "PATTERN" {
		return fmt.Errorf("invalid extractor.provider '%s': must be 'OPENAI' or 'PATTERN'", c.Extractor.Provider)
	}
	if d := c.Tradier.Duration; d != "" && d != "day" && d != "gtc" {
		return fmt.Errorf("invalid tradier.duration '%s': must be 'day' or 'gtc'", d)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Source == "" {
		c.Source = "REPLAY"
	}
	if c.Tradier.BaseURL == "" {
		c.Tradier.BaseURL = "https://sandbox.tradier.com"
	}
	if c.Extractor.Provider == "" {
		c.Extractor.Provider = "PATTERN"
	}
	if c.Extractor.Model == "" {
		c.Extractor.Model = "gpt-4.1-nano-2025-04-14"
	}
	if c.Extractor.MaxTokens == 0 {
		c.Extractor.MaxTokens = 256
	}
	if c.RiskConfigPath == "" {
		c.RiskConfigPath = "trading_config.json"
	}
	if c.Web.ListenAddr == "" {
		c.Web.ListenAddr = ":5000"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
