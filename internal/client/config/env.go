package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/cloudshare/internal/flagx"
)

const envPrefix = "CLOUDSHARE_"

// parseEnv loads a dotenv file into the process environment and overlays
// every CLOUDSHARE_* variable that is set. Variables already in the
// environment win over the file.
//
// The file is the one named by -e/-env, or ./.env when it exists. A named
// file that cannot be read, or a malformed duration, panics.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("API_URL", &cfg.APIBaseURL)
	str("UPLOAD_URL", &cfg.UploadBaseURL)
	dur("TIMEOUT", &cfg.RequestTimeout)
	str("SESSION_DB", &cfg.SessionDBPath)
	str("CURRENCY", &cfg.DefaultCurrency)
	str("PAYMENT_KEY", &cfg.PaymentKey)
	str("PRODUCT_NAME", &cfg.ProductName)
	str("PRODUCT_DESCRIPTION", &cfg.ProductDescription)
	str("PLAN", &cfg.Plan)
	dur("SUGGESTIONS_TTL", &cfg.SuggestionsTTL)
	str("LOG_LEVEL", &cfg.LogLevel)
}
