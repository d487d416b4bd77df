package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the settings main wires into the server. JWT_SECRET and the SMTP_* keys are
// read where they are used (utils/jwt.go, utils/email.go) and only checked by ValidateEnv.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// BossRegistrationCode is the single owner-level registration secret shared by every store.
	BossRegistrationCode string `envconfig:"BOSS_REGISTRATION_CODE" required:"true"`
	DefaultHourlyWage    int    `envconfig:"DEFAULT_HOURLY_WAGE" default:"9860"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	FrontendURL   string `envconfig:"FRONTEND_URL"`
	StorageBucket string `envconfig:"FIREBASE_STORAGE_BUCKET"`

	AdminName     string `envconfig:"ADMIN_NAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// LoadEnv reads .env from the working directory when there is one. Variables already set in
// the process environment take precedence; a missing file is not an error.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Msg("no .env file, using the process environment")
		return nil
	}
	return err
}

// Load reads the environment into a Config. Missing required keys are an error.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if c.DefaultHourlyWage <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_HOURLY_WAGE must be positive, got %d", c.DefaultHourlyWage)
	}
	return c, nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	for _, key := range []string{"JWT_SECRET", "DATABASE_URL", "BOSS_REGISTRATION_CODE"} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
		log.Warn().Msg("FIREBASE_STORAGE_BUCKET not set - notice image uploads will fail")
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set - Firebase features may not work")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Warn().Msg("FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_PASSWORD") == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set - default admin will get a generated password")
	}
	if os.Getenv("SMTP_HOST") == "" || os.Getenv("SMTP_PORT") == "" || os.Getenv("SMTP_FROM") == "" {
		log.Warn().Msg("SMTP not fully configured - welcome emails will not be sent")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
