package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
	}
	Site struct {
		Name    string
		BaseURL string
	}
	Database struct {
		URL string
	}
	Content struct {
		File string
	}
	Sitemap struct {
		OutputDir       string
		Filename        string
		PublishInterval string
	}
	Crawler struct {
		UserAgent      string
		Parallelism    int
		AllowedDomains []string
	}
	Log struct {
		Level string
	}
}

// LoadConfig reads config.yaml from . or ./config. A missing file is fine;
// defaults and SITE_* environment variables still apply.
func LoadConfig() (*Config, error) {
	return Load(viper.New())
}

func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("site")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("site.name", "Northwind Studio")
	v.SetDefault("site.baseurl", "https://example.com")
	v.SetDefault("database.url", "site.db")
	v.SetDefault("content.file", "")
	v.SetDefault("sitemap.outputdir", "public")
	v.SetDefault("sitemap.filename", "sitemap.xml")
	v.SetDefault("sitemap.publishinterval", "24h")
	v.SetDefault("crawler.useragent", "Agency Site Auditor v1.0")
	v.SetDefault("crawler.parallelism", 2)
	v.SetDefault("crawler.alloweddomains", []string{})
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Site.BaseURL = strings.TrimRight(config.Site.BaseURL, "/")
	return &config, nil
}

func (c *Config) GetPublishInterval() time.Duration {
	duration, err := time.ParseDuration(c.Sitemap.PublishInterval)
	if err != nil || duration <= 0 {
		return 24 * time.Hour
	}
	return duration
}
