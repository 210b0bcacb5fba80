package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/lipl/internal/server"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the lyrics storage HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Override the listen address from the config",
			},
		},
		Action: r.Serve,
	}
}

// Serve runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	conn, err := r.connect(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger), server.BasicAuth(conn, config.Auth))
	server.NewAPI(conn).Register(router)

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	srv := &http.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
