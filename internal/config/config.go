package config // package config loads application configuration from environment variables

import (
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time" // time expresses token lifetimes as durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The two token secrets are deliberately distinct:
// access and refresh tokens are signed with different key material so that a
// leaked secret for one class cannot forge the other.  Business logic never
// reads the environment directly; everything it needs travels inside this
// struct.
type Config struct {
    Env            string // application environment ("development", "production")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    AccessSecret   string // secret used to sign access tokens
    RefreshSecret  string // secret used to sign refresh tokens
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  The signing secrets and database coordinates are required;
// missing values cause the program to exit with a fatal log message, since
// a storefront without signing material is misconfigured rather than
// degraded.  Token TTLs default to the 15 minute / 7 day pairing and the
// cookie lifetimes are derived from the same numbers, so the two can never
// drift apart.
func Load() Config {
    return Config{
        Env:            envStr("APP_ENV", "development"),
        Port:           envStr("APP_PORT", "5000"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        AccessSecret:   must("ACCESS_TOKEN_SECRET"),
        RefreshSecret:  must("REFRESH_TOKEN_SECRET"),
        AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
        RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
        BcryptCost:     envInt("BCRYPT_COST", 10),
    }
}

// IsProduction reports whether the app runs in production mode.  The Secure
// flag on session cookies depends on it.
func (c Config) IsProduction() bool {
    return c.Env == "production" || c.Env == "prod"
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration {
    return time.Duration(c.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.  The session
// cache entry uses the exact same value so the cached token can never
// outlive its signature.
func (c Config) RefreshTTL() time.Duration {
    return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
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
