package initial

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"MCPCatalog/internal/config"
	"MCPCatalog/internal/modules/catalog/domain/entity"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

// InitGorm 按 driver 打开数据库并自动迁移目录表
func InitGorm(conf config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(conf)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", conf.Driver, err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

// AutoMigrate 自动迁移，如果没有建表，会自动创建对应的表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Server{},
		&entity.MarkdownContent{},
		&entity.Tool{},
		&entity.ToolParameter{},
		&entity.EnrichmentRun{},
	)
}

// Dialector 把配置翻译成 gorm 方言
func Dialector(conf config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(conf.Driver)) {
	case "", "sqlite":
		path := conf.Path
		if path == "" {
			path = "data/mcp_servers.db"
		}
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			_ = os.MkdirAll(filepath.Dir(path), 0o755)
		}
		return sqlite.Open(path), nil
	case "mysql":
		port := conf.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.User, conf.Password, conf.Host, port, conf.DatabaseName)
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		port := conf.Port
		if port == 0 {
			port = 5432
		}
		sslMode := conf.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			conf.Host, port, conf.User, conf.Password, conf.DatabaseName, sslMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}
