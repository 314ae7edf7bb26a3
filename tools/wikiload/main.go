// Load a wikipedia dump's titles and links into a store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikilinks"
)

var cfg = loadConfig()

var rootCmd = &cobra.Command{
	Use:           "wikiload",
	Short:         "Extract page titles and links from a wikipedia xml dump",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))
		if len(args) > 0 {
			cfg.Dump = args[0]
		}
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfg.Dump, "dump", cfg.Dump, "Uncompressed xml dump to read")
	f.IntVarP(&cfg.Partitions, "partitions", "p", cfg.Partitions, "Number of concurrent scans")
	f.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Pages per store flush")
	f.IntVar(&cfg.QueueSize, "queue", cfg.QueueSize, "Capacity of the page queue")
	f.IntVar(&cfg.Writers, "writers", cfg.Writers, "Number of concurrent batch writers")
	f.BoolVar(&cfg.Strict, "strict", false, "Abort a partition on an unexpected parser event")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Debug logging")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve prometheus metrics here")
}

// ingest runs the whole pipeline against store, which may be nil.
func ingest(ctx context.Context, store wikilinks.Store) error {
	reg := prometheus.NewRegistry()
	m, err := wikilinks.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, reg)
	}

	policy := wikilinks.ResyncOnInvalid
	if cfg.Strict {
		policy = wikilinks.FatalOnInvalid
	}

	st, err := wikilinks.IngestFile(ctx, cfg.Dump, store, wikilinks.Config{
		Partitions: cfg.Partitions,
		QueueSize:  cfg.QueueSize,
		BatchSize:  cfg.BatchSize,
		Writers:    cfg.Writers,
		Policy:     policy,
		Metrics:    m,
	})
	if err != nil {
		return fmt.Errorf("%v error: %w", wikilinks.Classify(err), err)
	}

	for _, s := range st.Scans {
		slog.Info("Partition summary", "partition", s.Partition.Index,
			"pages", s.Pages, "malformed", s.Malformed, "resyncs", s.Resyncs,
			"bytes", s.Bytes, "elapsed", s.Elapsed)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("wikiload failed", "error", err)
		os.Exit(1)
	}
}
