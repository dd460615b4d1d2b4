package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // shared secret the Aurora backend signs access tokens with
	APIBaseURL     string        // base URL of the Aurora REST backend
	APITimeout     time.Duration // per-request timeout for backend calls
	DraftTTL       time.Duration // lifetime of an untouched checkout draft
	EditSessionTTL time.Duration // lifetime of an untouched booking edit session
	PaymentReturn  string        // URL the payment gateway redirects back to
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is loaded first when
// present; real environment variables win over it.  Required variables are
// enforced by must() and missing values cause the program to exit.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		APIBaseURL:     must("AURORA_API_URL"),
		APITimeout:     envDur("AURORA_API_TIMEOUT", 15*time.Second),
		DraftTTL:       envDur("DRAFT_TTL", 24*time.Hour),
		EditSessionTTL: envDur("EDIT_SESSION_TTL", 2*time.Hour),
		PaymentReturn:  envStr("PAYMENT_RETURN_URL", "http://localhost:5173/booking/success"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
