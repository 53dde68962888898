package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	sendGridHost = "smtp.sendgrid.net"
	sendGridPort = 587
	sendGridUser = "apikey"
)

type Config struct {
	Server struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		Env          string `yaml:"env"`
		PublicURL    string `yaml:"public_url"`    // База для ссылок в письмах
		ReadTimeout  int    `yaml:"read_timeout"`  // Секунды
		WriteTimeout int    `yaml:"write_timeout"` // Секунды

		// Прокси, которым доверяем X-Forwarded-For; пусто - клиентом считается сам пир
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"jwt"`

	Storage struct {
		Type         string `yaml:"type"`      // local, s3
		BasePath     string `yaml:"base_path"` // Для local
		BaseURL      string `yaml:"base_url"`  // Публичный префикс URL
		Bucket       string `yaml:"bucket"`
		Region       string `yaml:"region"`
		AccessKey    string `yaml:"access_key"`
		SecretKey    string `yaml:"secret_key"`
		Endpoint     string `yaml:"endpoint"` // MinIO / R2 / кастомный S3
		UsePathStyle bool   `yaml:"use_path_style"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"` // Байты
		TempDir      string   `yaml:"temp_dir"`
		AvatarSize   int      `yaml:"avatar_size"`
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

var AppConfig *Config

// Default возвращает конфигурацию со всеми значениями по умолчанию.
// Используется как основа и для yaml, и для режима переменных окружения.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3000
	cfg.Server.Env = "development"
	cfg.Server.PublicURL = "http://localhost:3000"
	cfg.Server.ReadTimeout = 15
	cfg.Server.WriteTimeout = 30

	cfg.Database.Driver = "postgres"

	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@contacts.local"
	cfg.Email.FromName = "Contacts"

	cfg.JWT.TTLHours = 12

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./public/avatars"
	cfg.Storage.BaseURL = "/avatars"

	cfg.Upload.MaxSize = 1 << 20 // 1 MiB
	cfg.Upload.TempDir = "tmp"
	cfg.Upload.AvatarSize = 250
	cfg.Upload.ImageQuality = 90
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

	cfg.RateLimit.RequestsPerSecond = 5
	cfg.RateLimit.Burst = 10

	return &cfg
}

func LoadConfig() {
	cfg := Default()

	dbURL := os.Getenv("DB_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Loading configuration from %s", configPath)

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		log.Println("Loading configuration from environment variables")

		cfg.Database.DSN = dbURL
		if driver := os.Getenv("DB_DRIVER"); driver != "" {
			cfg.Database.Driver = driver
		}
		if env := os.Getenv("SERVER_ENV"); env != "" {
			cfg.Server.Env = env
		}
		if publicURL := os.Getenv("PUBLIC_URL"); publicURL != "" {
			cfg.Server.PublicURL = publicURL
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	AppConfig = cfg
}

// applyEnvOverrides накладывает секреты и порт из окружения поверх yaml.
func applyEnvOverrides(cfg *Config) {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		}
	}

	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Server.TrustedProxies = splitList(proxies)
	}

	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		cfg.UseSendGrid(apiKey)
	}
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UseSendGrid настраивает SMTP-релей SendGrid по API-ключу.
func (c *Config) UseSendGrid(apiKey string) {
	c.Email.Enabled = true
	c.Email.SMTPHost = sendGridHost
	c.Email.SMTPPort = sendGridPort
	c.Email.SMTPUsername = sendGridUser
	c.Email.SMTPPassword = apiKey
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (AUTH_SECRET)")
	}
	if c.JWT.TTLHours <= 0 {
		return errors.New("jwt ttl_hours must be positive")
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required (DB_URL)")
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("upload max_size must be positive")
	}
	return nil
}
