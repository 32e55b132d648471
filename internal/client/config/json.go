package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cloudshare/internal/flagx"
	"github.com/dmitrijs2005/cloudshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "30s".
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	UploadBaseURL      string         `json:"upload_base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	SessionDBPath      string         `json:"session_db_path"`
	DefaultCurrency    string         `json:"default_currency"`
	PaymentKey         string         `json:"payment_key"`
	ProductName        string         `json:"product_name"`
	ProductDescription string         `json:"product_description"`
	Plan               string         `json:"plan"`
	SuggestionsTTL     timex.Duration `json:"suggestions_ttl"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays Config with the fields a JSON file sets. The file is
// named by -c or -config; without one nothing happens. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.UploadBaseURL, jc.UploadBaseURL)
	set(&cfg.SessionDBPath, jc.SessionDBPath)
	set(&cfg.DefaultCurrency, jc.DefaultCurrency)
	set(&cfg.PaymentKey, jc.PaymentKey)
	set(&cfg.ProductName, jc.ProductName)
	set(&cfg.ProductDescription, jc.ProductDescription)
	set(&cfg.Plan, jc.Plan)
	set(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SuggestionsTTL.Duration > 0 {
		cfg.SuggestionsTTL = jc.SuggestionsTTL.Duration
	}
}
