package config

import (
	"log"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultConfigPath = "configs/config_local.toml"

type MainConfig struct {
	AppName     string `toml:"appName"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	TLSRedirect bool   `toml:"tlsRedirect"`
}

// DatabaseConfig 数据库连接配置，Driver 取值 sqlite / mysql / postgres
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SSLMode      string `toml:"sslMode"`
}

// MigrationConfig 迁移目标库（通常是托管的 Postgres）
type MigrationConfig struct {
	Target    DatabaseConfig `toml:"target"`
	ChunkSize int            `toml:"chunkSize"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type KafkaConfig struct {
	Brokers  []string `toml:"brokers"`
	ClientID string   `toml:"clientID"`
	Topic    string   `toml:"topic"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

// MCPConfig 对外暴露的 MCP Server 配置
type MCPConfig struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// EnrichConfig README 解析/入库任务配置
type EnrichConfig struct {
	Schedule        string `toml:"schedule"`
	Limit           int    `toml:"limit"`
	MinReadmeLength int    `toml:"minReadmeLength"`
	OverridesPath   string `toml:"overridesPath"`
	CacheTTLSeconds int    `toml:"cacheTTLSeconds"`
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	MigrationConfig `toml:"migrationConfig"`
	LogConfig       `toml:"logConfig"`
	JwtConfig       `toml:"jwtConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	RedisConfig     `toml:"redisConfig"`
	MCPConfig       `toml:"mcpConfig"`
	EnrichConfig    `toml:"enrichConfig"`
}

var config *Config

// LoadConfig 从指定路径加载配置；文件不存在时保留默认值
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}
	c := new(Config)
	if _, err := toml.DecodeFile(path, c); err != nil {
		log.Printf("load config %s failed: %v, using defaults", path, err)
		applyDefaults(c)
		config = c
		return c, err
	}
	applyDefaults(c)
	config = c
	return c, nil
}

// Decode 从 TOML 文本解析配置，主要用于测试
func Decode(data string) (*Config, error) {
	c := new(Config)
	if _, err := toml.Decode(data, c); err != nil {
		return nil, err
	}
	applyDefaults(c)
	return c, nil
}

func GetConfig() *Config {
	if config == nil {
		_, _ = LoadConfig(DefaultConfigPath)
	}
	return config
}

// SetConfig 替换全局配置（命令行覆盖、测试）
func SetConfig(c *Config) {
	config = c
}

func applyDefaults(c *Config) {
	if c.AppName == "" {
		c.AppName = "MCPCatalog"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "127.0.0.1"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.DatabaseConfig.Driver == "" {
		c.DatabaseConfig.Driver = "sqlite"
	}
	if c.DatabaseConfig.Driver == "sqlite" && c.DatabaseConfig.Path == "" {
		c.DatabaseConfig.Path = "data/mcp_servers.db"
	}
	if c.MigrationConfig.ChunkSize <= 0 {
		c.MigrationConfig.ChunkSize = 500
	}
	if c.MigrationConfig.Target.Driver == "" {
		c.MigrationConfig.Target.Driver = "postgres"
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.LogConfig.MaxSizeMB <= 0 {
		c.LogConfig.MaxSizeMB = 100
	}
	if c.KafkaConfig.Topic == "" {
		c.KafkaConfig.Topic = "catalog.enriched"
	}
	if c.MCPConfig.Name == "" {
		c.MCPConfig.Name = "mcp-catalog"
	}
	if c.MCPConfig.Version == "" {
		c.MCPConfig.Version = "1.0.0"
	}
	if c.EnrichConfig.MinReadmeLength <= 0 {
		c.EnrichConfig.MinReadmeLength = 100
	}
	if c.EnrichConfig.CacheTTLSeconds <= 0 {
		c.EnrichConfig.CacheTTLSeconds = 3600
	}
}
