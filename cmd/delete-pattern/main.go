// Command delete-pattern bulk-deletes every key matching a glob pattern
// from a standalone server or from every primary of a cluster.
//
// Usage:
//
//	delete-pattern [--host H] [--port P] [--auth A] [--batch-size B] [--scan-count C] <pattern>
//
// Host, port, and credential fall back to REDIS_HOST, REDIS_PORT, and
// REDIS_AUTH when the flags are omitted; explicit flags win. The process
// exits 0 on completion even when zero keys matched, and non-zero on usage
// errors or an unreachable seed node. Per-key failures are summarized and
// never change the exit code.
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
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	cfg := config.Default()
	flag.StringVar(&cfg.Host, "host", config.EnvString(config.EnvHost, cfg.Host), "seed node host")
	flag.IntVar(&cfg.Port, "port", config.EnvInt(config.EnvPort, cfg.Port), "seed node port")
	flag.StringVar(&cfg.Auth, "auth", config.EnvString(config.EnvAuth, ""), "password, if the deployment requires one")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "commands per pipelined batch")
	flag.IntVar(&cfg.ScanCount, "scan-count", cfg.ScanCount, "SCAN page-size hint")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-call network timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: delete-pattern [flags] <pattern>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	pattern := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topo := discoverTopology(ctx, cfg)
	sum, err := bulk.Delete(ctx, topo, nodeDialer(cfg), bulk.DeleteOptions{
		Pattern:   pattern,
		BatchSize: cfg.BatchSize,
		ScanCount: int64(cfg.ScanCount),
	})
	if err != nil {
		logFatal("delete: %v", err)
	}
	sum.Log("delete")
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

// nodeDialer injects the shared credential and timeout into per-node dials,
// since the cluster node table only reports addresses.
func nodeDialer(cfg config.Config) bulk.NodeDialer {
	return func(ctx context.Context, ep cluster.Endpoint) (*cluster.Conn, error) {
		ep.Auth = cfg.Auth
		return cluster.Dial(ctx, ep, cfg.Timeout)
	}
}
