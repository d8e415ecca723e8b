package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-scribe/cmd/scribe/internal/bootstrap"
)

var (
	moduleBuilder = bootstrap.BuildModule
	// onListen reports the bound address once the listener is open.
	onListen = func(string) {}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServe(ctx, os.Args[1:]); err != nil {
		log.Fatalf("scribe serve: %v", err)
	}
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scribe-serve", flag.ExitOnError)
	var opts bootstrap.Options
	bootstrap.RegisterFlags(fs, &opts)
	addr := fs.String("addr", "", "Listen address (defaults to http.addr from the config)")
	contentDir := fs.String("content-dir", "", "Content root for directory imports")

	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.ContentDir = *contentDir
	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	cfg := module.Module.Container().Config
	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = cfg.HTTP.Addr
	}
	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	router, err := module.Module.Router()
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", listenAddr, err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	bound := listener.Addr().String()
	module.Logger.Info("serve.listening", "addr", bound, "base_path", cfg.HTTP.BasePath)
	onListen(bound)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	module.Logger.Info("serve.shutting_down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	module.Logger.Info("serve.stopped")
	return nil
}
