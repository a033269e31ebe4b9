package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/trailpace/internal/api"
	"github.com/julianstephens/trailpace/internal/logger"
)

type ServeCmd struct {
	Listen string `help:"Address to listen on. Defaults to the configured listen address."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	addr := c.Listen
	if addr == "" {
		addr = ctx.Config.Listen
	}

	// Request logs go to stderr while serving.
	logger.InitWriter(os.Stderr, ctx.Config.Debug)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Serving trailpace API on %s\n", addr)
	return api.NewServer(ctx.Store, ctx.session()).ListenAndServe(sigCtx, addr)
}
