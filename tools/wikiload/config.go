package main

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type config struct {
	Dump        string
	Partitions  int
	BatchSize   int
	QueueSize   int
	Writers     int
	Strict      bool
	Verbose     bool
	MetricsAddr string

	DatabaseURL string
	PGMaxConns  int
	Reset       bool

	SQLitePath string

	CouchbaseURL    string
	CouchbaseBucket string

	CouchDBURL string

	ElasticURL   string
	ElasticIndex string

	MongoURL        string
	MongoDB         string
	MongoCollection string
}

// loadConfig reads .env if there is one, then the environment.  Flags
// override whatever comes out of here.
func loadConfig() *config {
	_ = godotenv.Load()

	return &config{
		Dump:        getEnv("WIKILINKS_DUMP", "enwiki-latest-pages-articles.xml"),
		Partitions:  getEnvInt("WIKILINKS_PARTITIONS", runtime.GOMAXPROCS(0)),
		BatchSize:   getEnvInt("WIKILINKS_BATCH", 1000),
		QueueSize:   getEnvInt("WIKILINKS_QUEUE", 128),
		Writers:     getEnvInt("WIKILINKS_WRITERS", 1),
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/wikilinks"),
		PGMaxConns:  getEnvInt("PG_MAX_CONNS", 4),

		SQLitePath: getEnv("SQLITE_PATH", "wikilinks.db"),

		CouchbaseURL:    getEnv("COUCHBASE_URL", "http://localhost:8091/"),
		CouchbaseBucket: getEnv("COUCHBASE_BUCKET", "default"),

		CouchDBURL: getEnv("COUCHDB_URL", "http://localhost:5984/wikipedia"),

		ElasticURL:   getEnv("ELASTIC_URL", "http://localhost:9200"),
		ElasticIndex: getEnv("ELASTIC_INDEX", "wikipedia"),

		MongoURL:        getEnv("MONGO_URL", "localhost"),
		MongoDB:         getEnv("MONGO_DB", "wp"),
		MongoCollection: getEnv("MONGO_COLLECTION", "articles"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}
