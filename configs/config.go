package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

// ConfigOr returns the value for key or fallback when unset.
func ConfigOr(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

// CommissionRateBasisPoints reads PLATFORM_COMMISSION_RATE (a fraction such
// as "0.20") and converts it to basis points for integer money math.
// Defaults to 20%.
func CommissionRateBasisPoints() int64 {
	raw := Config("PLATFORM_COMMISSION_RATE")
	if raw == "" {
		return 2000
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		log.Printf("Warning: invalid PLATFORM_COMMISSION_RATE %q, using 0.20", raw)
		return 2000
	}
	return int64(rate*10000 + 0.5)
}
