// Command actuatord runs the actuator task loop as a standalone process:
// load settings from a file, watch it for changes, and drive simulated
// servo/watchdog backends (or, with real peripheral drivers wired in,
// actual hardware) until interrupted.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"actuatorcore/actuator"
	"actuatorcore/config"
	"actuatorcore/metrics"
	"actuatorcore/objects"
	"actuatorcore/servo"
	"actuatorcore/watchdog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		settingsPath string
		metricsAddr  string
		channelCount int
	)

	cmd := &cobra.Command{
		Use:   "actuatord",
		Short: "Run the actuator mixing/output task loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settingsPath, metricsAddr, channelCount)
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "settings.yaml", "path to the actuator settings file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "address to serve Prometheus metrics on")
	cmd.Flags().IntVar(&channelCount, "channels", 8, "fake servo channel count, when no real driver is wired in")

	return cmd
}

func run(ctx context.Context, settingsPath, metricsAddr string, channelCount int) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	store := objects.NewStore()

	loader, err := config.NewLoader(settingsPath, store, sugar)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	_ = loader // kept alive for its fsnotify watch; nothing further to call on it

	servoDriver := servo.NewFake(channelCount)
	wd := watchdog.NewFake()

	registry := prometheus.NewRegistry()
	mixerStatus := metrics.NewMixerStatus(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}

	task := actuator.NewTask(store, servoDriver, wd, mixerStatus, sugar)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The task loop and the metrics server are the two goroutines this
	// process needs alive at once; errgroup ties their lifetimes together
	// so either one exiting triggers a clean shutdown of the other.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("actuator task starting", "settings", settingsPath, "metrics_addr", metricsAddr)
		err := task.Run(gctx)
		if err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return metricsServer.Close()
	})

	return g.Wait()
}
