package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
	"strings"  // strings splits the region list
	"time"     // time parses the reclaim interval
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The booking data is split
// across one global database (user accounts) and one database per
// region; all databases share the same MySQL server credentials and
// differ only by schema name.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBNameGlobal    string        // schema holding the global user store
	Regions         []string      // region names, e.g. ["krakow", "warsaw"]
	RegionDBNames   map[string]string // region -> schema name
	JWTSecret       string        // secret used to sign JWTs
	AccessTTLMin    int           // access token time-to-live in minutes
	BcryptCost      int           // bcrypt cost for password hashing
	ReclaimInterval time.Duration // how often the expiry reclaimer sweeps each region
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// The per-region schema names come from DB_NAME_<REGION> (region name
// upper-cased), e.g. DB_NAME_KRAKOW.
func Load() Config {
	regions := splitRegions(must("REGIONS"))
	names := make(map[string]string, len(regions))
	for _, region := range regions {
		names[region] = must("DB_NAME_" + strings.ToUpper(region))
	}
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBNameGlobal:    must("DB_NAME_GLOBAL"),
		Regions:         regions,
		RegionDBNames:   names,
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:      mustInt("BCRYPT_COST"),
		ReclaimInterval: durDefault("RECLAIM_INTERVAL", time.Minute),
	}
}

// splitRegions parses a comma-separated region list, trimming blanks.
func splitRegions(raw string) []string {
	parts := strings.Split(raw, ",")
	regions := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			regions = append(regions, p)
		}
	}
	if len(regions) == 0 {
		log.Fatalf("REGIONS must name at least one region")
	}
	return regions
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

// durDefault reads an optional duration, falling back to def when the
// variable is unset or unparseable.
func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
