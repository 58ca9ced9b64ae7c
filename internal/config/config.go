// Package config reads the environment configuration of the query
// tool and the coverage engine defaults.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LogLevel   string
	LogConsole bool
	Depth      int
	DeltaDepth int
	Workers    int
	CacheSize  int
}

func FromEnv() Config {
	depth := getint("HPX_DEPTH", 10)
	if depth < 0 {
		depth = 0
	}
	if depth > 29 {
		depth = 29
	}

	delta := getint("HPX_DELTA_DEPTH", 2)
	if delta < 0 {
		delta = 0
	}

	workers := getint("HPX_WORKERS", 0) // 0 means GOMAXPROCS

	return Config{
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogConsole: getbool("LOG_CONSOLE", false),
		Depth:      depth,
		DeltaDepth: delta,
		Workers:    workers,
		CacheSize:  getint("COVERAGE_CACHE_SIZE", 128),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}
