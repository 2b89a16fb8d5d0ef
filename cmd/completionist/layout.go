package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epic-tm/completionist/internal/layout"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print an ASCII overview of the chart layout",
	Long: `Print the chart as seen from far away: each digit is a domain core and
each + one of its tiers. With --coords the world position of every domain
and tier is listed as well.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	def := layout.DefaultMiniChartConfig()
	layoutCmd.Flags().Int("width", def.Width, "chart width in columns")
	layoutCmd.Flags().Int("height", def.Height, "chart height in rows")
	layoutCmd.Flags().Bool("coords", false, "list domain and tier coordinates")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, _ []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	coords, _ := cmd.Flags().GetBool("coords")

	return withSession(cmd, func(_ context.Context, s *session) error {
		out := cmd.OutOrStdout()
		l := s.mgr.Layout()

		layout.WriteMiniChart(out, l, layout.MiniChartConfig{Width: width, Height: height})
		for _, d := range l.Domains {
			fmt.Fprintf(out, "%d %s  ", d.Index+1, d.Name)
		}
		fmt.Fprintln(out)

		if coords {
			fmt.Fprintln(out)
			layout.WriteCoordinates(out, l)
		}
		return nil
	})
}
