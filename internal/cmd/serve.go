package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waview/waview/internal/analyzer"
	"github.com/waview/waview/internal/parser"
	"github.com/waview/waview/internal/server"
	"github.com/waview/waview/internal/session"
	"github.com/waview/waview/internal/watcher"
)

var watchPattern string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser dashboard",
	Long: `Start the web dashboard. Upload a chat export in the browser, or point
--watch at an export file (or glob) to load it on startup and re-analyze
it whenever it changes on disk.

Examples:
  waview serve
  waview serve --port 9000
  waview serve --watch exports/chat.txt`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8080", "dashboard port")
	serveCmd.Flags().StringVarP(&watchPattern, "watch", "w", "", "chat export file or glob to watch")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
	}()

	holder := session.New()

	if watchPattern != "" {
		w, err := watcher.New([]string{watchPattern}, log)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		paths := w.Paths()
		if len(paths) == 0 {
			return fmt.Errorf("no files matched %q", watchPattern)
		}

		// Load the first match so the dashboard is populated on startup.
		if err := loadExport(paths[0], holder); err != nil {
			return err
		}
		log.Info().Str("path", paths[0]).Msg("watching export")

		go w.Start(ctx)
		go w.Reload(ctx, holder)
	}

	srv := server.New(holder, viper.GetString("port"), log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		// Drain in-flight requests before exiting.
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func loadExport(path string, holder *session.Holder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	chat, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	holder.Set(chat, analyzer.Analyze(chat))
	return nil
}
