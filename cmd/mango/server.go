package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/redmango/storefront/internal/api"
	"github.com/redmango/storefront/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bundled dev backend (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve catalog and feedback tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show client status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func setupLogging(cfg config.Config) {
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func runServe() error {
	fmt.Fprintf(os.Stderr, "mango version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewServer().Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("dev backend listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(cfg.API.BaseURL + "/health")
	if err != nil {
		printStatus("Backend", "unreachable at %s", cfg.API.BaseURL)
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			printStatus("Backend", "reachable at %s", cfg.API.BaseURL)
		} else {
			printStatus("Backend", "error (HTTP %d)", resp.StatusCode)
		}
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sess := app.sessions.Current()
	if sess.Authenticated() {
		printStatus("Session", "%s (%s)", sess.UserID, sess.Role)
	} else {
		printStatus("Session", "not logged in")
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func runMCP() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()
	setupLogging(app.cfg)

	reviews, err := app.reviews()
	if err != nil {
		return err
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Catalog: app.client,
		Reviews: reviews,
		Ratings: app.ratings(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("MCP server started (stdio transport)")
	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
