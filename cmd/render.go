package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/TurboCartPig/pathtracer/renderer"
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	sc, err := generateScene(ctx, float32(opts.FrameW)/float32(opts.FrameH))
	if err != nil {
		return err
	}

	stages, err := postProcessStages(ctx)
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, nil, nil, opts, stages...)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort the frame on ctrl+c
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame with %d spp and %d bounces", opts.FrameW, opts.FrameH, opts.SamplesPerPixel, opts.NumBounces)
	if err = r.Render(renderCtx); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Generate the scene selected by the scene flag.
func generateScene(ctx *cli.Context, aspect float32) (*scene.Scene, error) {
	seed := ctx.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return scene.Generate(ctx.String("scene"), aspect, rand.New(rand.NewSource(seed)))
}

// Assemble the post-process stages requested on the command line.
func postProcessStages(ctx *cli.Context) ([]renderer.PostProcessStage, error) {
	stages := []renderer.PostProcessStage{
		renderer.SaveFrameBuffer(ctx.String("out")),
	}

	if thumbFile := ctx.String("thumbnail"); thumbFile != "" {
		stages = append(stages, renderer.SaveThumbnail(thumbFile, uint(ctx.Int("thumbnail-width"))))
	}

	if key := ctx.String("s3-key"); key != "" {
		cfg := LoadS3Config(ctx.String("env"))
		if bucket := ctx.String("s3-bucket"); bucket != "" {
			cfg.Bucket = bucket
		}
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("an S3 bucket is required for uploading frames")
		}

		api, err := newS3Client(cfg)
		if err != nil {
			return nil, err
		}
		stages = append(stages, renderer.UploadFrame(api, cfg.Bucket, key))
	}

	return stages, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Blocks", "Rows", "% of frame", "Rays", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Blocks),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.RayCount),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"", "", "", "TOTAL",
		fmt.Sprintf("%.2fM (%.2fM/s)", float64(stats.RayCount)/1e6, stats.RaysPerSecond()/1e6),
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
