package cmd

import (
	"context"
	"fmt"

	"vacancy-match/internal/app"
	"vacancy-match/internal/delivery/http/dto"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <candidate-id>",
	Short: "Summarize detailed matches for a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			stats, err := c.Matching.MatchStatistics(context.Background(), args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(dto.NewMatchStatisticsResponse(stats))
			}

			fmt.Printf("Total matches: %d\n", stats.TotalMatches)
			fmt.Printf("Average score: %d\n", stats.AverageScore)
			if len(stats.TopCategories) == 0 {
				return nil
			}
			fmt.Println("Top categories:")
			for _, tc := range stats.TopCategories {
				fmt.Printf("  %-24s %-32s %d\n", tc.CategoryID, tc.CategoryName, tc.Count)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
