// Package serve implements the serve command: a small HTTP API answering from
// the schema of the tenant named in each request.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/schemaroute/cmd/internal/app"
)

const (
	addrFlag = "addr"

	shutdownTimeout = 10 * time.Second
)

var serveFlags = func() map[string]cobraflags.Flag {
	flags := app.Flags()
	flags[addrFlag] = &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: ":8080",
		Usage: "Address to listen on",
	}
	return flags
}()

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tenant-scoped HTTP API",
		Long: `Serve the customers API. Every request is executed in the schema of the tenant
named by the tenant query parameter, for example:

  curl 'http://localhost:8080/customers?tenant=acme'`,
		RunE: serveCommand,
	}

	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	a, err := app.New(serveFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              serveFlags[addrFlag].GetString(),
		Handler:           NewRouter(a.Factory, a.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Listening", "addr", srv.Addr, "tenants", len(a.Config.Tenants))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
