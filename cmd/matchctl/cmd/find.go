package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"vacancy-match/internal/app"
	"vacancy-match/internal/delivery/http/dto"
	"vacancy-match/internal/domain/matching"
	"vacancy-match/internal/usecase"

	"github.com/spf13/cobra"
)

var findOpts struct {
	radiusKm         float64
	categoryIDs      []string
	hierarchical     bool
	minCategoryScore float64
	detailed         bool
}

var findCmd = &cobra.Command{
	Use:   "find <candidate-id>",
	Short: "Rank nearby vacancies for a candidate",
	Long: `Rank the vacancies near a candidate.

Only the first --category is used to narrow the result.

Examples:
  matchctl find c-123
  matchctl find c-123 --radius 25 --category frontend --hierarchical --detailed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := usecase.MatchFilters{
			CategoryIDs:            findOpts.categoryIDs,
			IncludeHierarchical:    findOpts.hierarchical,
			EnableDetailedMatching: findOpts.detailed,
		}
		if cmd.Flags().Changed("radius") {
			filters.RadiusKm = &findOpts.radiusKm
		}
		if cmd.Flags().Changed("min-category-score") {
			filters.MinCategoryScore = &findOpts.minCategoryScore
		}

		return withContainer(func(c *app.Container) error {
			results, err := c.Matching.FindMatches(context.Background(), args[0], filters)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(dto.NewMatchResultResponses(results))
			}
			printResults(results)
			return nil
		})
	},
}

func init() {
	f := findCmd.Flags()
	f.Float64Var(&findOpts.radiusKm, "radius", 0, "search radius in km (default: candidate radius or configured default)")
	f.StringSliceVar(&findOpts.categoryIDs, "category", nil, "category id to narrow by")
	f.BoolVar(&findOpts.hierarchical, "hierarchical", false, "include vacancies of descendant categories")
	f.Float64Var(&findOpts.minCategoryScore, "min-category-score", 0, "drop vacancies below this category score (detailed only)")
	f.BoolVar(&findOpts.detailed, "detailed", false, "compute category, experience and skills factors")
	rootCmd.AddCommand(findCmd)
}

func printResults(results []matching.MatchResult) {
	if len(results) == 0 {
		fmt.Println("No matches found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tBUCKET\tVACANCY\tTITLE\tCOMPANY\tREASONS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\t%v\n",
			r.Score, r.Color, r.Percentage, r.Vacancy.ID, r.Vacancy.Title, r.Vacancy.Company, r.MatchReasons)
	}
	_ = w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
