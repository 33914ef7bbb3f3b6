package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/mirrorhouse/internal/api"
	"github.com/vovakirdan/mirrorhouse/internal/cache"
	"github.com/vovakirdan/mirrorhouse/internal/config"
	"github.com/vovakirdan/mirrorhouse/internal/metrics"
	"github.com/vovakirdan/mirrorhouse/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagServeDir    string
	flagRedisAddr   string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH puzzle browser and HTTP solve API",
	Long: `Start an SSH server where each connection browses the puzzle pack and
watches runs, and an HTTP server exposing the solve API and metrics.
Runs from both are recorded in the shared history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mirrorhouse/ssh_host_ed25519

Set an address to "off" to disable that server. If --redis is set, solve
results are cached in Redis.

Examples:
  mirrorhouse serve                          # SSH on :23235, HTTP on :8080
  mirrorhouse serve --ssh :2222 --http off   # SSH only
  mirrorhouse serve --redis localhost:6379   # Cache solve results

Users can connect with:
  ssh localhost -p 23235
  curl -d '{"board":"5,5\n-1\n2,2,L\n-1\n0,2,H\n-1\n"}' localhost:8080/v1/solve`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, or off)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (host:port, or off)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeDir, "dir", "", "Puzzle pack directory")
	serveCmd.Flags().StringVar(&flagRedisAddr, "redis", "", "Redis address for the result cache")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting SSH sessions")
}

func runServe(_ *cobra.Command, _ []string) {
	sc := cfg.Serve
	if flagSSHAddr != "" {
		sc.SSHAddr = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		sc.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		sc.HostKey = flagHostKey
	}
	if flagServeDir != "" {
		sc.PuzzlesDir = flagServeDir
	}
	if flagIdleTimeout > 0 {
		sc.IdleTimeout = flagIdleTimeout
	}
	cc := cfg.Cache
	if flagRedisAddr != "" {
		cc.RedisAddr = flagRedisAddr
	}

	if err := serve(sc, cc); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func enabled(addr string) bool {
	return addr != "" && addr != "off"
}

func serve(sc config.ServeConfig, cc config.CacheConfig) error {
	if !enabled(sc.SSHAddr) && !enabled(sc.HTTPAddr) {
		return errors.New("both servers are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	if enabled(sc.SSHAddr) {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:         sc.SSHAddr,
			HostKeyPath:     config.ExpandHome(sc.HostKey),
			IdleTimeout:     sc.IdleTimeout,
			PuzzlesDir:      sc.PuzzlesDir,
			MaxSteps:        maxSteps(),
			StepsPerSecond:  cfg.Watch.StepsPerSecond,
			LegacyRightGate: cfg.Simulation.LegacyRightGate,
		}, store, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
		fmt.Printf("Connect with: ssh localhost -p %s\n", port(sc.SSHAddr))
		g.Go(func() error { return sshServer.ListenAndServe(ctx) })
	}

	if enabled(sc.HTTPAddr) {
		deps := api.Deps{
			Metrics:         metrics.New(),
			Logger:          logger.WithPrefix("http"),
			MaxSteps:        maxSteps(),
			LegacyRightGate: cfg.Simulation.LegacyRightGate,
		}
		if store != nil {
			deps.Store = store
		}
		if enabled(cc.RedisAddr) {
			c := cache.New(cc.RedisAddr, cache.WithTTL(cc.TTL), cache.WithPrefix(cc.Prefix))
			defer c.Close()

			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := c.Ping(pingCtx); err != nil {
				logger.Warn("redis unavailable, caching disabled", "addr", cc.RedisAddr, "error", err)
			} else {
				deps.Cache = c
			}
			cancel()
		}

		srv := &http.Server{
			Addr:              sc.HTTPAddr,
			Handler:           api.NewHandler(deps),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("starting HTTP server", "address", sc.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	fmt.Println("Press Ctrl+C to stop")
	return g.Wait()
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
