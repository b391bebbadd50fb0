package cmd

import (
	"bytes"
	"fmt"

	"github.com/TurboCartPig/pathtracer/scene/bvh"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Generate a scene, build its BVH and display the tree statistics.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := generateScene(ctx, 16.0/9.0)
	if err != nil {
		return err
	}
	if len(sc.Instances) == 0 {
		return fmt.Errorf("scene %q has no instances", ctx.String("scene"))
	}

	tree := bvh.Build(sc.Instances)
	displayBvhStats(ctx.String("scene"), tree)
	return nil
}

func displayBvhStats(name string, tree *bvh.BVH) {
	stats := tree.Stats()
	bounds, _ := tree.Bounds()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Scene", name},
		{"Instances", fmt.Sprintf("%d", stats.Items)},
		{"Nodes", fmt.Sprintf("%d", stats.Nodes)},
		{"Leaves", fmt.Sprintf("%d", stats.Leaves)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
		{"Max leaf size", fmt.Sprintf("%d", stats.MaxLeafSize)},
		{"Avg leaf size", fmt.Sprintf("%.2f", float64(stats.Items)/float64(stats.Leaves))},
		{"Bounds min", fmt.Sprintf("(%.2f, %.2f, %.2f)", bounds.Min[0], bounds.Min[1], bounds.Min[2])},
		{"Bounds max", fmt.Sprintf("(%.2f, %.2f, %.2f)", bounds.Max[0], bounds.Max[1], bounds.Max[2])},
		{"Build time", stats.BuildTime.String()},
	})

	table.Render()
	logger.Noticef("BVH statistics\n%s", buf.String())
}
