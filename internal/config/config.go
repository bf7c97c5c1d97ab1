package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

const (
	defaultJWTTTLHours     = 72
	defaultMaxUploadBytes  = 10 * 1024 * 1024
	defaultChatRateLimit   = 2
	defaultPurgeCron       = "*/30 * * * *"
	defaultPurgeAfterHours = 24
	defaultAIMaxTokens     = 1000
	defaultAITemperature   = 0.7
	defaultAITimeout       = 60
	defaultAICacheSize     = 1000
	defaultAICacheTTL      = 30
)

type Config struct {
	Port            int              `json:"port"`
	JWTSecret       string           `json:"jwt_secret"`
	JWTTTLHours     int              `json:"jwt_ttl_hours"`
	Database        DatabaseConfig   `json:"database"`
	LogConfig       logger.LogConfig `json:"log_config"`
	FileStore       FileStoreConfig  `json:"file_store"`
	AI              AIConfig         `json:"ai"`
	Knowledge       KnowledgeConfig  `json:"knowledge"`
	Properties      Properties       `json:"properties"`
	CORSOrigins     []string         `json:"cors_origins"`
	MaxUploadBytes  int64            `json:"max_upload_bytes"`
	ChatRateLimit   int              `json:"chat_rate_limit_seconds"`
	PurgeCron       string           `json:"purge_cron"`
	PurgeAfterHours int              `json:"purge_after_hours"`
}

type DatabaseConfig struct {
	DSN          string `json:"dsn"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Password     string `json:"password"`
	DBName       string `json:"dbname"`
	SSLMode      string `json:"sslmode"`
	MaxOpenConns int    `json:"max_open_conns"`
}

func (c DatabaseConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.DBName, sslmode)
}

// FileStoreConfig selects a store implementation; Data is handed to its factory.
type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Providers       []AIProviderConfig `json:"providers"`
	MaxTokens       int                `json:"max_tokens"`
	Temperature     *float64           `json:"temperature"`
	Timeout         int                `json:"timeout"`
	CacheSize       int                `json:"cache_size"`
	CacheTTLMinutes int                `json:"cache_ttl_minutes"`
}

type AIProviderConfig struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Model string      `json:"model"`
	Data  interface{} `json:"data"`
}

type KnowledgeConfig struct {
	PlatformName  string `json:"platform_name"`
	DocumentLimit uint   `json:"document_limit"`
	TableLimit    uint   `json:"table_limit"`
	LinkLimit     uint   `json:"link_limit"`
}

type Properties struct {
	EnableUserRegister bool `json:"enable_user_register"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.DBName == "") {
		return fmt.Errorf("database.dsn or database.host/dbname is required")
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = defaultJWTTTLHours
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	c.FileStore.Type = strings.ToLower(strings.TrimSpace(c.FileStore.Type))
	if c.FileStore.Type == "" {
		c.FileStore.Type = "local"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.ChatRateLimit < 0 {
		c.ChatRateLimit = 0
	} else if c.ChatRateLimit == 0 {
		c.ChatRateLimit = defaultChatRateLimit
	}
	if c.PurgeCron == "" {
		c.PurgeCron = defaultPurgeCron
	}
	if c.PurgeAfterHours <= 0 {
		c.PurgeAfterHours = defaultPurgeAfterHours
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = defaultAIMaxTokens
	}
	if c.AI.Temperature == nil {
		t := defaultAITemperature
		c.AI.Temperature = &t
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = defaultAITimeout
	}
	if c.AI.CacheSize == 0 {
		c.AI.CacheSize = defaultAICacheSize
	}
	if c.AI.CacheTTLMinutes == 0 {
		c.AI.CacheTTLMinutes = defaultAICacheTTL
	}
	for i, p := range c.AI.Providers {
		if strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("ai.providers[%d].type is required", i)
		}
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf("ai.providers[%d].model is required", i)
		}
		if p.Name == "" {
			c.AI.Providers[i].Name = p.Type
		}
	}
	return nil
}
