package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 DASHBOARD_SERVER_PORT
const EnvPrefix = "DASHBOARD"

// Config 应用程序配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
	Collection CollectionConfig `mapstructure:"collection"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Preview    PreviewConfig    `mapstructure:"preview"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`             // 服务器主机
	Port            int           `mapstructure:"port"`             // 服务器端口
	Mode            string        `mapstructure:"mode"`             // gin运行模式：debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // 优雅退出等待时间
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`        // 日志级别
	File       string `mapstructure:"file"`         // 日志文件，为空时输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个日志文件大小上限
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的旧日志数量
	MaxAgeDays int    `mapstructure:"max_age_days"` // 旧日志保留天数
	Compress   bool   `mapstructure:"compress"`     // 是否压缩旧日志
}

// StorageConfig 上传文件存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type"`     // 存储类型：local, minio, gcs
	Path      string `mapstructure:"path"`     // 本地存储路径
	Bucket    string `mapstructure:"bucket"`   // MinIO/GCS桶名称
	Prefix    string `mapstructure:"prefix"`   // 对象名前缀
	Endpoint  string `mapstructure:"endpoint"` // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// SnapshotConfig 文档集合快照存储配置
type SnapshotConfig struct {
	Type          string `mapstructure:"type"`           // 存储类型：memory, sqlite, redis, firestore
	Key           string `mapstructure:"key"`            // 快照键名
	DSN           string `mapstructure:"dsn"`            // SQLite数据库文件
	RedisAddr     string `mapstructure:"redis_addr"`     // Redis地址
	RedisPassword string `mapstructure:"redis_password"` // Redis密码
	RedisDB       int    `mapstructure:"redis_db"`       // Redis数据库编号
	ProjectID     string `mapstructure:"project_id"`     // Firestore项目ID
	Collection    string `mapstructure:"collection"`     // Firestore集合名称
}

// CollectionConfig 文档集合配置
type CollectionConfig struct {
	Capacity int `mapstructure:"capacity"` // 文档数量上限，0表示不限制
}

// UploadConfig 上传校验配置
type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`      // 单文件大小上限（字节）
	AllowedTypes []string `mapstructure:"allowed_types"` // 允许的文件类型：pdf, xls, xlsx, csv
}

// PreviewConfig 预览配置
type PreviewConfig struct {
	PageMode        string        `mapstructure:"page_mode"`        // 页面生成方式：render, placeholder
	SessionTTL      time.Duration `mapstructure:"session_ttl"`      // 预览会话闲置过期时间
	ExtractionLimit int           `mapstructure:"extraction_limit"` // 提取快捷方式数量上限
	DefaultLayout   string        `mapstructure:"default_layout"`   // 默认展示方式：horizontal, vertical
}

// Load 从文件和环境变量加载配置
// 同目录下的.env文件会先载入环境变量
func Load(configPath string) (*Config, error) {
	var config Config

	// 设置默认配置路径
	if configPath == "" {
		configPath = "config.yaml"
	}

	loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env"))

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	if _, err := os.Stat(configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		log.Printf("Warning: Config file not found at %s, using defaults", configPath)
	} else if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	// 支持环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expandSecrets(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// loadDotEnv 载入.env文件，文件不存在时忽略
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Could not load %s: %v", path, err)
	}
}

// expandSecrets 把形如 ${VAR} 的密钥替换为环境变量的值
func expandSecrets(cfg *Config) {
	for _, field := range []*string{
		&cfg.Storage.AccessKey,
		&cfg.Storage.SecretKey,
		&cfg.Snapshot.RedisPassword,
	} {
		value := *field
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			if envVal := os.Getenv(value[2 : len(value)-1]); envVal != "" {
				*field = envVal
			}
		}
	}
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Collection.Capacity < 0 {
		return fmt.Errorf("collection capacity cannot be negative: %d", c.Collection.Capacity)
	}
	if c.Upload.MaxSize < 0 {
		return fmt.Errorf("upload max size cannot be negative: %d", c.Upload.MaxSize)
	}
	return nil
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./data/files")
	v.SetDefault("storage.bucket", "dashboard")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)

	// 快照默认配置
	v.SetDefault("snapshot.type", "sqlite")
	v.SetDefault("snapshot.key", "documents")
	v.SetDefault("snapshot.dsn", "data/dashboard.db")
	v.SetDefault("snapshot.redis_addr", "localhost:6379")
	v.SetDefault("snapshot.redis_password", "")
	v.SetDefault("snapshot.redis_db", 0)
	v.SetDefault("snapshot.project_id", "")
	v.SetDefault("snapshot.collection", "dashboard")

	// 集合默认配置
	v.SetDefault("collection.capacity", 9)

	// 上传默认配置
	v.SetDefault("upload.max_size", 10*1024*1024) // 10MB
	v.SetDefault("upload.allowed_types", []string{"xlsx", "xls", "csv", "pdf"})

	// 预览默认配置
	v.SetDefault("preview.page_mode", "placeholder")
	v.SetDefault("preview.session_ttl", "30m")
	v.SetDefault("preview.extraction_limit", 4)
	v.SetDefault("preview.default_layout", "horizontal")
}
