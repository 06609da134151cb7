package main

import (
	"fmt"
	"os"

	"github.com/df07/go-bvh-pathtracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using BVH-accelerated path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "only log warnings and errors",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "notice",
			Usage: "log level: debug, info, notice, warning or error",
		},
	}

	configFlag := cli.StringFlag{
		Name:  "config, c",
		Usage: "JSON render configuration; flags override its values",
	}

	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Build the BVH of a built-in scene, path trace one frame with one worker per
row band and write it as a binary PPM, or as PNG when the output ends in .png.`,
			Flags: []cli.Flag{
				configFlag,
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "built-in scene name (default cornell)",
				},
				cli.StringFlag{
					Name:  "mesh, m",
					Usage: "PLY model to render inside the Cornell box instead of a built-in scene",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width (default: the scene's)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height (default: the scene's)",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel (default 16)",
				},
				cli.IntFlag{
					Name:  "threads, t",
					Usage: "number of row bands rendered in parallel; 0 uses every logical CPU (default 16)",
				},
				cli.StringFlag{
					Name:  "split",
					Usage: "BVH split method: sah or midpoint (default sah)",
				},
				cli.Float64Flag{
					Name:  "rr",
					Usage: "russian roulette continuation probability (default 0.8)",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Usage: "maximum path depth; 0 relies on russian roulette alone",
				},
				cli.IntFlag{
					Name:  "max-leaf-size",
					Usage: "recorded BVH leaf size limit (default 1)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "base seed of the per-band samplers",
				},
				cli.BoolFlag{
					Name:  "jitter",
					Usage: "sample random positions inside each pixel",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame (default binary.ppm)",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "serve the web renderer",
			Flags: []cli.Flag{
				configFlag,
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
			},
			Action: cmd.Serve,
		},
	}

	return app
}
