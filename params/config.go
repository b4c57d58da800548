package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Pools controls the book's slab-allocator sizing and index pre-size.
type Pools struct {
	NodeSlabSize  int
	LevelSlabSize int
	IndexHint     int
}

// Server controls the REST/WS listen addresses.
type Server struct {
	APIAddr string
	// AllowedOrigins is the CORS allow-list for the REST/WS server.
	AllowedOrigins []string
}

// Persist controls periodic snapshot persistence to Pebble.
type Persist struct {
	Enabled  bool
	DataDir  string
	Interval time.Duration
}

// Metrics controls the Prometheus exposition endpoint.
type Metrics struct {
	Enabled bool
	Addr    string
}

type Config struct {
	Pools         Pools
	Server        Server
	Persist       Persist
	Metrics       Metrics
	SnapshotDepth int
}

func Default() Config {
	return Config{
		Pools: Pools{
			NodeSlabSize:  1024,
			LevelSlabSize: 256,
			IndexHint:     10000,
		},
		Server: Server{
			APIAddr:        ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Persist: Persist{
			Enabled:  false,
			DataDir:  "data/snapshots",
			Interval: 5 * time.Second,
		},
		Metrics: Metrics{
			Enabled: true,
			Addr:    ":9090",
		},
		SnapshotDepth: 20,
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory, if any
	}

	if v := os.Getenv("BOOK_NODE_SLAB_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pools.NodeSlabSize = n
		}
	}
	if v := os.Getenv("BOOK_LEVEL_SLAB_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pools.LevelSlabSize = n
		}
	}
	if v := os.Getenv("BOOK_INDEX_HINT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pools.IndexHint = n
		}
	}
	if v := os.Getenv("BOOK_SNAPSHOT_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SnapshotDepth = n
		}
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.Server.APIAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true"
	}
	if v := os.Getenv("PERSIST_ENABLED"); v != "" {
		cfg.Persist.Enabled = v == "true"
	}
	if v := os.Getenv("PERSIST_DATA_DIR"); v != "" {
		cfg.Persist.DataDir = v
	}
	if v := os.Getenv("PERSIST_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Persist.Interval = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
