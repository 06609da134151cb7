package cmd

import (
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("pathtracer")

// setupLogging applies --log-level, then lets -q, -v and -vv override it.
// Render progress is logged at info, so -v is needed to see it.
func setupLogging(ctx *cli.Context) error {
	level := log.Notice
	if name := ctx.GlobalString("log-level"); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		level = parsed
	}

	switch {
	case ctx.GlobalBool("vv"):
		level = log.Debug
	case ctx.GlobalBool("v"):
		level = log.Info
	case ctx.GlobalBool("quiet"):
		level = log.Warning
	}

	log.SetLevel(level)
	return nil
}
