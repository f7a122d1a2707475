package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pulsemon/pulsemon/internal/probe"
)

func main() {
	target := os.Getenv("TARGET_URL")
	if len(os.Args) > 1 {
		target = os.Args[1]
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "usage: checkonce <url>  (or set TARGET_URL)")
		os.Exit(2)
	}

	chk := probe.NewHTTPChecker(10 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := chk.Check(ctx, target)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)

	if !res.Success {
		os.Exit(1)
	}
}
