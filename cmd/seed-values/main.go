// Command seed-values bulk-writes synthetic records. Key names come from a
// template whose {num} token is replaced by the 1-based sequence index;
// values are generated JSON payloads. Existing keys are overwritten.
//
// Usage:
//
//	seed-values [--host H] [--port P] [--auth A] --count N [--batch-size B] <pattern-with-{num}>
//
// In cluster mode generated keys are grouped per owning primary before
// batching, so every node receives pipelined bulk writes. Exit-code and
// environment-fallback conventions match delete-pattern.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/butskristof/redis-tools/internal/bulk"
	"github.com/butskristof/redis-tools/internal/cluster"
	"github.com/butskristof/redis-tools/internal/config"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	cfg := config.Default()
	flag.StringVar(&cfg.Host, "host", config.EnvString(config.EnvHost, cfg.Host), "seed node host")
	flag.IntVar(&cfg.Port, "port", config.EnvInt(config.EnvPort, cfg.Port), "seed node port")
	flag.StringVar(&cfg.Auth, "auth", config.EnvString(config.EnvAuth, ""), "password, if the deployment requires one")
	flag.IntVar(&cfg.Count, "count", cfg.Count, "number of records to generate")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "commands per pipelined batch")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-call network timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: seed-values [flags] <pattern-with-%s>\n", bulk.NumToken)
		flag.PrintDefaults()
		os.Exit(1)
	}
	template := flag.Arg(0)
	if !strings.Contains(template, bulk.NumToken) {
		fmt.Fprintf(os.Stderr, "pattern %q must contain the %s placeholder\n", template, bulk.NumToken)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topo := discoverTopology(ctx, cfg)
	sum, err := bulk.Seed(ctx, topo, nodeDialer(cfg), bulk.SeedOptions{
		Template:  template,
		Count:     cfg.Count,
		BatchSize: cfg.BatchSize,
	})
	if err != nil {
		logFatal("seed: %v", err)
	}
	sum.Log("seed")
}

// discoverTopology dials the seed, resolves the deployment topology once,
// and warns about degraded coverage before any work starts.
func discoverTopology(ctx context.Context, cfg config.Config) cluster.Topology {
	conn, err := cluster.Dial(ctx, cfg.Endpoint(), cfg.Timeout)
	if err != nil {
		logFatal("seed node: %v", err)
	}
	defer conn.Close()

	topo, err := cluster.Discover(ctx, conn)
	if err != nil {
		logFatal("discover: %v", err)
	}
	log.Printf("topology: %s, %d primaries", topo.Mode, len(topo.Primaries()))
	if missing, overlapping := topo.CoverageGaps(); len(missing) > 0 || len(overlapping) > 0 {
		log.Printf("topology: degraded cluster: unowned slots %v, doubly-owned slots %v", missing, overlapping)
	}
	return topo
}

// nodeDialer injects the shared credential and timeout into per-node dials.
func nodeDialer(cfg config.Config) bulk.NodeDialer {
	return func(ctx context.Context, ep cluster.Endpoint) (*cluster.Conn, error) {
		ep.Auth = cfg.Auth
		return cluster.Dial(ctx, ep, cfg.Timeout)
	}
}
