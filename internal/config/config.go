package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverMySQL = "mysql"
	DriverMongo = "mongo"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Exactly one storage backend
// is active per process, selected by StoreDriver; only that backend's
// connection variables are required.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	StoreDriver  string // "mysql" or "mongo"
	DBUser       string // MySQL username
	DBPass       string // MySQL password (optional)
	DBHost       string // MySQL host address
	DBPort       string // MySQL port number
	DBName       string // MySQL database name
	MongoURI     string // MongoDB connection URI
	MongoDB      string // MongoDB database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and
// returns a Config.  Missing required variables cause the program to
// exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          getenvDefault("APP_ENV", "dev"),
		Port:         getenvDefault("APP_PORT", "3001"),
		StoreDriver:  getenvDefault("STORE_DRIVER", DriverMySQL),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: intDefault("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   intDefault("BCRYPT_COST", 10),
	}
	switch cfg.StoreDriver {
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case DriverMongo:
		cfg.MongoURI = must("MONGODB_URI")
		cfg.MongoDB = getenvDefault("MONGODB_DB", "moviecrowdfund")
	default:
		log.Fatalf("unknown STORE_DRIVER: %q (want mysql or mongo)", cfg.StoreDriver)
	}
	return cfg
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

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
