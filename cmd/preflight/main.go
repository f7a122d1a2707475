package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	target := strings.TrimSpace(os.Getenv("TARGET_URL"))
	if target == "" {
		fail("TARGET_URL is empty (the monitor has nothing to probe).")
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		fail("TARGET_URL must be an http(s) URL, got: " + target)
	}
	ok("TARGET_URL=" + target)

	for _, name := range []string{"CHECK_INTERVAL_MS", "CHECK_TIMEOUT_MS", "PORT"} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			warn(name + " empty; the built-in default will be used.")
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			fail(name + " must be a positive integer, got: " + v)
		}
		ok(name + "=" + v)
	}

	if tz := strings.TrimSpace(os.Getenv("TIME_ZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			fail("TIME_ZONE is not a valid IANA zone: " + tz)
		}
		ok("TIME_ZONE=" + tz)
	} else {
		warn("TIME_ZONE empty — day buckets will follow the host's local zone.")
	}

	ok("preflight passed")
}
