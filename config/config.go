package config

import (
	"errors"
	"flag"
	"io/fs"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // -timezone must resolve in minimal containers

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DBUrl        string
	TokenSecret  string
	TokenTTL     time.Duration
	Debug        bool
	RedisURL     string
	SyncInterval time.Duration
	SyncOnce     bool
	Location     *time.Location
	AddUser      string
}

// ParseFlags reads the command line. Every flag defaults to an environment
// variable, optionally loaded from a .env file in the working directory.
func ParseFlags() (cfg Config, err error) {
	return Parse(flag.CommandLine, os.Args[1:])
}

func Parse(fset *flag.FlagSet, args []string) (cfg Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}

	var host string
	fset.StringVar(&host, "host", getenv("BONGA_HOST", "0.0.0.0"), "listen host name")
	var port uint
	fset.UintVar(&port, "port", uint(getenvInt("BONGA_PORT", 8080)), "listen port number")
	fset.StringVar(&cfg.DBUrl, "db-url", getenv("BONGA_DB_URL", "bonga.sqlite"), "path to SQLite3 DB file")
	fset.StringVar(&cfg.TokenSecret, "token-secret", getenv("BONGA_TOKEN_SECRET", ""), "secret key for token encryption and decryption")
	var ttl uint
	fset.UintVar(&ttl, "token-ttl", uint(getenvInt("BONGA_TOKEN_TTL", 900)), "token TTL in seconds")
	fset.BoolVar(&cfg.Debug, "debug", getenv("BONGA_DEBUG", "") == "true", "log at DEBUG level")
	fset.StringVar(&cfg.RedisURL, "redis-url", getenv("REDIS_URL", ""), "redis URL for the status sync lock (optional)")
	fset.DurationVar(&cfg.SyncInterval, "sync-interval", getenvDuration("BONGA_SYNC_INTERVAL", 24*time.Hour), "interval between survey status syncs")
	fset.BoolVar(&cfg.SyncOnce, "sync-once", false, "sync survey statuses once and exit")
	tz := getenv("BONGA_TIMEZONE", "Local")
	fset.StringVar(&tz, "timezone", tz, "IANA time zone survey dates are interpreted in")
	fset.StringVar(&cfg.AddUser, "add-user", "", "create a user given as username:password and exit")
	if err = fset.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return
	}
	if cfg.SyncInterval <= 0 {
		err = errors.New("-sync-interval must be positive")
		return
	}
	if cfg.TokenSecret == "" && !cfg.SyncOnce && cfg.AddUser == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}
