package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TargetURL string         // endpoint to probe (required)
	Interval  time.Duration  // time between probes
	Timeout   time.Duration  // per-probe timeout
	Addr      string         // HTTP bind address
	LogDir    string         // logs directory
	Debug     bool           // log every probe at debug level
	Location  *time.Location // reference zone for day buckets
}

func FromEnv() Config {
	target := os.Getenv("TARGET_URL")

	interval := 60_000
	if v := os.Getenv("CHECK_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			interval = ms
		}
	}

	timeout := 10_000
	if v := os.Getenv("CHECK_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = ms
		}
	}

	port := 3333
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			port = p
		}
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	debug := false
	if v := os.Getenv("DEBUG"); v == "1" || v == "true" {
		debug = true
	}

	// Day buckets follow the host's zone unless TIME_ZONE names an IANA zone.
	loc := time.Local
	if tz := os.Getenv("TIME_ZONE"); tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	return Config{
		TargetURL: target,
		Interval:  time.Duration(interval) * time.Millisecond,
		Timeout:   time.Duration(timeout) * time.Millisecond,
		Addr:      ":" + strconv.Itoa(port),
		LogDir:    logDir,
		Debug:     debug,
		Location:  loc,
	}
}
