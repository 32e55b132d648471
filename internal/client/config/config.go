package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
	"github.com/dmitrijs2005/cloudshare/internal/common"
)

// Config holds runtime settings for the CloudShare CLI.
type Config struct {
	APIBaseURL    string
	UploadBaseURL string
	// RequestTimeout bounds every request, uploads included.
	RequestTimeout time.Duration
	SessionDBPath  string

	DefaultCurrency    string
	PaymentKey         string
	ProductName        string
	ProductDescription string
	Plan               string

	SuggestionsTTL time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.UploadBaseURL = ""
	c.RequestTimeout = 30 * time.Second
	c.SessionDBPath = defaultSessionDBPath()
	c.DefaultCurrency = common.DefaultCurrency
	c.PaymentKey = ""
	c.ProductName = normalize.DefaultOrder.Name
	c.ProductDescription = normalize.DefaultOrder.Description
	c.Plan = "premium"
	c.SuggestionsTTL = 5 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// OrderDefaults fills checkout fields an order response leaves out.
func (c *Config) OrderDefaults() normalize.OrderDefaults {
	return normalize.OrderDefaults{
		Currency:    c.DefaultCurrency,
		Key:         c.PaymentKey,
		Name:        c.ProductName,
		Description: c.ProductDescription,
	}
}

func defaultSessionDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".cloudshare", "session.db")
	}
	return filepath.Join(dir, "cloudshare", "session.db")
}
