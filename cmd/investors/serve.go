package main

import (
	"context"
	"errors"
	"fmt"
	"investor-lab/api"
	"investor-lab/projection"
	"investor-lab/sink"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the investors HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	history := sink.NewHistorySink(a.config.HistorySize)
	a.store.RegisterSinks(sink.NewLogSink(a.log), history)
	view := projection.NewFilteredView(a.store)
	defer view.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := a.config.Address()
	srv := &http.Server{
		Addr:    address,
		Handler: api.NewInvestorHandler(api.AppDeps{Investors: a.store, View: view, History: history, Log: a.log}),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errChan := make(chan error, 1)
	go func() {
		a.log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info("Program stopped cleanly")
	return nil
}
