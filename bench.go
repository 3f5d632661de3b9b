package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"digits/internal/config"
	"digits/internal/search"
)

var (
	benchLevels int
	benchDigits []int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time level generation per digit and budget",
	Long: `Builds the level tables for each digit up to the given budget and prints
the time and table size of every level. The search mode selects plain or
extended generation; "both" times the two one after the other.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchLevels < 1 {
			return fmt.Errorf("--levels must be positive, got %d", benchLevels)
		}
		for _, d := range benchDigits {
			if d < 1 || d > 9 {
				return fmt.Errorf("%w: %d", search.ErrInvalidDigit, d)
			}
		}

		var modes []bool
		switch cfg.Search.Mode {
		case config.ModePlain:
			modes = []bool{false}
		case config.ModeExtended:
			modes = []bool{true}
		default:
			modes = []bool{false, true}
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "mode\tdigit\tbudget\tlevel\taggregated\ttime\t")
		for _, ext := range modes {
			name := config.ModePlain
			if ext {
				name = config.ModeExtended
			}
			for _, d := range benchDigits {
				opts := searchOptions()
				opts.Extended = ext
				b, err := search.NewBuilder(d, opts)
				if err != nil {
					return err
				}
				var levels []search.LevelStats
				for k := 0; k <= benchLevels; k++ {
					st, err := b.Generate(cmd.Context(), k)
					if err != nil {
						return err
					}
					levels = append(levels, st)
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%v\t\n", name, d, k, st.LevelSize, st.AggregatedSize, st.Duration)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t\t\t%v\t\n", name, d, "total", search.TotalDuration(levels))
			}
		}
		return tw.Flush()
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchLevels, "levels", 8, "highest digit budget to generate")
	benchCmd.Flags().IntSliceVar(&benchDigits, "digits", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, "digits to benchmark")
	rootCmd.AddCommand(benchCmd)
}
