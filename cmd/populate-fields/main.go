// Command populate-fields bulk-writes hash fields from a declarative YAML
// source. Each record names a key and a values mapping; fields are merged
// into the target hash, leaving fields outside the record untouched, so
// re-running with the same input is idempotent.
//
// Usage:
//
//	populate-fields [--host H] [--port P] [--auth A] [--batch-size B] --source <path>
//
// The process exits 1 when the source file does not exist or fails to
// parse, before any network contact. Exit-code and environment-fallback
// conventions otherwise match delete-pattern.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/butskristof/redis-tools/internal/bulk"
	"github.com/butskristof/redis-tools/internal/cluster"
	"github.com/butskristof/redis-tools/internal/config"
	"github.com/butskristof/redis-tools/internal/source"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	cfg := config.Default()
	var sourcePath string
	flag.StringVar(&cfg.Host, "host", config.EnvString(config.EnvHost, cfg.Host), "seed node host")
	flag.IntVar(&cfg.Port, "port", config.EnvInt(config.EnvPort, cfg.Port), "seed node port")
	flag.StringVar(&cfg.Auth, "auth", config.EnvString(config.EnvAuth, ""), "password, if the deployment requires one")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "commands per pipelined batch")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-call network timeout")
	flag.StringVar(&sourcePath, "source", "", "path to the YAML records file")
	flag.Parse()

	if sourcePath == "" || flag.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "usage: populate-fields [flags] --source <path>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// The source is validated before any network contact.
	records, err := source.Load(sourcePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Printf("source: %d records from %s", len(records), sourcePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topo := discoverTopology(ctx, cfg)
	sum, err := bulk.Populate(ctx, topo, nodeDialer(cfg), bulk.PopulateOptions{
		Records:   records,
		BatchSize: cfg.BatchSize,
	})
	if err != nil {
		logFatal("populate: %v", err)
	}
	sum.Log("populate")
}

// discoverTopology dials the seed, resolves the deployment topology once,
// and warns about degraded coverage before any work starts.
func discoverTopology(ctx context.Context, cfg config.Config) cluster.Topology {
	conn, err := cluster.Dial(ctx, cfg.Endpoint(), cfg.Timeout)
	if err != nil {
		logFatal("seed: %v", err)
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
