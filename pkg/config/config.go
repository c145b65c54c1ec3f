package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      App      `yaml:"app"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Mail     Mail     `yaml:"mail"`
	Admin    Admin    `yaml:"admin"`
	Allows   Allows   `yaml:"allows"`
}

type App struct {
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	Host     string `yaml:"host"`
	Debug    bool   `yaml:"debug"`
	Timezone string `yaml:"timezone"`
}

type Database struct {
	Driver string `yaml:"driver"`
	Host   string `yaml:"host"`
	Port   string `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	Name   string `yaml:"name"`
	// Path is the sqlite file (or ":memory:") when Driver is "sqlite".
	Path string `yaml:"path"`
}

type Auth struct {
	Secret string `yaml:"secret"`
}

type Mail struct {
	Provider     string `yaml:"provider"`
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
}

type Admin struct {
	Key string `yaml:"key"`
}

type Allows struct {
	Methods []string `yaml:"methods"`
	Origins []string `yaml:"origins"`
	Headers []string `yaml:"headers"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailResend = "resend"
	MailLog    = "log"
)

// InitConfig reads the yaml file at path, applies environment overrides and
// fills defaults. A missing file is not an error; everything can come from env.
func InitConfig(path string) (*Config, error) {
	var configs Config

	if path == "" {
		path = "./config.yaml"
	}
	file_name, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	yaml_file, err := os.ReadFile(file_name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", file_name, err)
	}
	if len(yaml_file) > 0 {
		if err := yaml.Unmarshal(yaml_file, &configs); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", file_name, err)
		}
	}

	configs.applyEnv()
	configs.applyDefaults()

	return &configs, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// Database
	override(&c.Database.Driver, "DB_DRIVER")
	override(&c.Database.Host, "DB_HOST")
	override(&c.Database.Port, "DB_PORT")
	override(&c.Database.User, "DB_USER")
	override(&c.Database.Pass, "DB_PASSWORD")
	override(&c.Database.Name, "DB_NAME")
	override(&c.Database.Path, "DB_PATH")

	// App
	override(&c.App.Host, "APP_HOST")
	override(&c.App.Port, "APP_PORT")
	override(&c.App.Name, "APP_NAME")
	override(&c.App.Timezone, "APP_TIMEZONE")
	if debug := os.Getenv("APP_DEBUG"); debug != "" {
		c.App.Debug = strings.EqualFold(debug, "true") || debug == "1"
	}

	// Secrets
	override(&c.Auth.Secret, "SECRET")
	override(&c.Admin.Key, "ADMIN_KEY")
	override(&c.Mail.Provider, "MAIL_PROVIDER")
	override(&c.Mail.ResendAPIKey, "RESEND_API_KEY")
	override(&c.Mail.From, "MAIL_FROM")
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "capital"
	}
	if c.App.Port == "" {
		c.App.Port = "8000"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "America/Sao_Paulo"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Mail.Provider == "" {
		if c.Mail.ResendAPIKey != "" {
			c.Mail.Provider = MailResend
		} else {
			c.Mail.Provider = MailLog
		}
	}
	if c.Mail.From == "" {
		c.Mail.From = "Capital Online <onboarding@resend.dev>"
	}
}

// Validate reports configuration that would make the server unsafe or unable to start.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret (SECRET) must be set")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Mail.Provider {
	case MailResend:
		if c.Mail.ResendAPIKey == "" {
			return errors.New("mail.resend_api_key (RESEND_API_KEY) must be set for the resend provider")
		}
	case MailLog:
	default:
		return fmt.Errorf("unsupported mail provider %q", c.Mail.Provider)
	}
	return nil
}
