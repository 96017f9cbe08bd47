package main

import (
	"context"
	"fmt"
	"os"

	"engagement-prediction-api/services"

	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	var (
		theme  string
		width  int
		height int
		out    string
	)

	cmd := &cobra.Command{
		Use:       "chart <platform-chart|post-type-chart|feature-importance-chart>",
		Short:     "Render one dataset chart as SVG",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(services.ChartPlatform), string(services.ChartPostType), string(services.ChartFeatureImportance)},
		RunE: func(cmd *cobra.Command, args []string) error {
			insights, err := services.LoadInsights()
			if err != nil {
				return fmt.Errorf("load insights: %w", err)
			}
			renderer := services.NewChartRenderer(insights, &services.CacheService{}, 0)

			svg, err := renderer.Render(context.Background(), services.ChartID(args[0]), services.ChartOptions{
				Theme:  services.ParseTheme(theme),
				Width:  width,
				Height: height,
			})
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(out, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(svg))
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "light", "Color theme (light|dark)")
	cmd.Flags().IntVar(&width, "width", 0, "Width in points (default 640)")
	cmd.Flags().IntVar(&height, "height", 0, "Height in points (default 400)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
