package cmd

import (
	"github.com/df07/go-bvh-pathtracer/web/server"
	"github.com/urfave/cli"
)

// Serve starts the web server.
func Serve(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Threads == 0 {
		cfg.Threads = logicalCPUs()
	}

	logHostInfo()
	return server.NewServer(ctx.Int("port"), cfg).Start()
}
