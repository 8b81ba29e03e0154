package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultCreditScoreTimeout = 5 * time.Second
	defaultCreditCacheTTL     = 10 * time.Minute
	defaultLogLevel           = "info"
	defaultSlowQueryThreshold = 200 * time.Millisecond
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	CreditScore CreditScoreConfig `yaml:"credit_score"`
	Redis       RedisConfig       `yaml:"redis"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host                  string        `yaml:"host"`
	Port                  int           `yaml:"port"`
	User                  string        `yaml:"user"`
	Password              string        `yaml:"password"`
	Name                  string        `yaml:"name"`
	SSLMode               string        `yaml:"ssl_mode"`
	MaxOpenConns          int           `yaml:"max_open_conns"`
	MaxIdleConns          int           `yaml:"max_idle_conns"`
	ConnMaxLifetime       time.Duration `yaml:"-"`
	ConnMaxIdleTime       time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw    string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw    string        `yaml:"conn_max_idle_time"`
	// SlowQueryThreshold を超えたクエリは警告として記録されます。
	SlowQueryThreshold    time.Duration `yaml:"-"`
	SlowQueryThresholdRaw string        `yaml:"slow_query_threshold"`
}

// CreditScoreConfig は外部与信サービスへの接続設定です。
type CreditScoreConfig struct {
	Address    string        `yaml:"address"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// RedisConfig は与信枠キャッシュの設定です。URL が空の場合キャッシュは無効です。
type RedisConfig struct {
	URL    string        `yaml:"url"`
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl"`
}

// MetricsConfig は Prometheus エンドポイントの設定です。ListenAddr が空の場合は公開しません。
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// PathFromEnv は CONFIG_PATH 環境変数、未設定の場合は既定のパスを返します。
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "assets/local.yaml"
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.CreditScore.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Redis.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	slow, err := parseDurationAllowEmpty(d.SlowQueryThresholdRaw)
	if err != nil {
		return fmt.Errorf("config: database.slow_query_threshold: %w", err)
	}
	if slow <= 0 {
		slow = defaultSlowQueryThreshold
	}
	d.SlowQueryThreshold = slow

	return nil
}

func (c *CreditScoreConfig) validateAndNormalize() error {
	if c.Address == "" {
		return fmt.Errorf("config: credit_score.address must be set")
	}

	timeout, err := parseDurationAllowEmpty(c.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: credit_score.timeout: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultCreditScoreTimeout
	}
	c.Timeout = timeout

	return nil
}

func (r *RedisConfig) validateAndNormalize() error {
	ttl, err := parseDurationAllowEmpty(r.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: redis.ttl: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultCreditCacheTTL
	}
	r.TTL = ttl

	return nil
}

// Enabled はキャッシュが有効かどうかを返します。
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

func (l *LogConfig) validateAndNormalize() error {
	switch l.Level {
	case "":
		l.Level = defaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", l.Level)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}
