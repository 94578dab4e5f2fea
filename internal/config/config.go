package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	SMSBaseURL     string // SMS provider REST base URL
	SMSAccountSID  string // SMS provider account identifier
	SMSAuthToken   string // SMS provider auth token
	SMSFrom        string // sending phone number
	EmailBaseURL   string // email provider REST base URL
	EmailAPIKey    string // email provider API key
	EmailFrom      string // sending email address
	WeatherBaseURL string // weather provider base URL
	WeatherAPIKey  string // weather provider API key (optional)
	GeocodeBaseURL string // geocoding provider base URL
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),             // environment (dev/test/prod)
		Port:           must("APP_PORT"),            // port to bind the HTTP server
		DBUser:         must("DB_USER"),             // database user
		DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
		DBHost:         must("DB_HOST"),             // database host
		DBPort:         must("DB_PORT"),             // database port
		DBName:         must("DB_NAME"),             // database name
		JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor

		SMSBaseURL:     must("SMS_BASE_URL"),          // SMS provider endpoint
		SMSAccountSID:  must("SMS_ACCOUNT_SID"),       // SMS account identifier
		SMSAuthToken:   must("SMS_AUTH_TOKEN"),        // SMS auth token
		SMSFrom:        must("SMS_FROM"),              // sending phone number
		EmailBaseURL:   must("EMAIL_BASE_URL"),        // email provider endpoint
		EmailAPIKey:    must("EMAIL_API_KEY"),         // email API key
		EmailFrom:      must("EMAIL_FROM"),            // sending address
		WeatherBaseURL: must("WEATHER_BASE_URL"),      // weather provider endpoint
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),  // weather API key (empty allowed)
		GeocodeBaseURL: must("GEOCODE_BASE_URL"),      // geocoding provider endpoint
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
