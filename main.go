package main

import (
	"fmt"
	"os"

	"github.com/TurboCartPig/pathtracer/cmd"
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Value: scene.RandomSceneName,
			Usage: fmt.Sprintf("built-in scene to render (%s or %s)", scene.RandomSceneName, scene.SingleSceneName),
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed for scene generation and sampling; 0 picks a random seed",
		},
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using monte carlo path tracing"
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
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Generate a built-in scene, compile it into a BVH and render a still frame
using all available CPU cores.

Render settings are read from a TOML settings file and may be overridden
with command line flags. The rendered frame can optionally be downscaled
into a thumbnail and uploaded to an S3 compatible object store. Upload
credentials are read from the S3_* environment variables which can also be
defined in a .env file.`,
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "settings",
					Value: "settings.toml",
					Usage: "TOML file with render settings",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "bounces",
					Usage: "max scatter events per path",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Usage: "display gamma",
				},
				cli.IntFlag{
					Name:  "tracers",
					Usage: "number of cpu tracers; 0 uses one per CPU",
				},
				cli.IntFlag{
					Name:  "block-height",
					Usage: "rows per unit of work; 0 balances blocks between tracers",
				},
				cli.StringFlag{
					Name:  "debug",
					Usage: "render a debug view instead of radiance (normals or depth)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "thumbnail",
					Usage: "image filename for a downscaled copy of the frame",
				},
				cli.IntFlag{
					Name:  "thumbnail-width",
					Value: 256,
					Usage: "thumbnail width in pixels",
				},
				cli.StringFlag{
					Name:  "s3-bucket",
					Usage: "bucket for uploading the frame; defaults to $S3_BUCKET",
				},
				cli.StringFlag{
					Name:  "s3-key",
					Usage: "object key for uploading the frame; the upload is skipped if empty",
				},
				cli.StringFlag{
					Name:  "env",
					Value: ".env",
					Usage: "file with S3_* environment variables",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:        "scene-info",
			Usage:       "display BVH statistics for a built-in scene",
			Description: `Generate a built-in scene, build its BVH and print the tree statistics.`,
			Flags:       sceneFlags,
			Action:      cmd.SceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
