package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"digits/internal/config"
	"digits/internal/search"
)

var (
	cfgPath   string
	verbose   bool
	workers   int
	maxBudget int
	mode      string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "digits",
	Short: "Find the shortest expression for a number using a single digit",
	Long: `digits searches for the arithmetic expression that evaluates to a target
integer while using only one decimal digit, e.g. 1999 written with sevens only.
The expression with the fewest occurrences of the digit wins.

The plain search uses + - * /. The extended search also allows factorial and
exponentiation. By default both are run and reported separately.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("workers") {
			c.Search.Workers = workers
		}
		if flags.Changed("max-budget") {
			c.Search.MaxBudget = maxBudget
		}
		if flags.Changed("mode") {
			c.Search.Mode = mode
		}
		if verbose {
			c.Logging.Level = "debug"
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = c

		lvl, err := c.LogLevel()
		if err != nil {
			return err
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var findCmd = &cobra.Command{
	Use:   "find <target> <digit>",
	Short: "Find the shortest expression for target using only digit",
	Example: `  digits find 1999 7
  digits find 100 1 --mode plain`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, digit, err := parseQuery(args[0], args[1])
		if err != nil {
			return err
		}
		return runQuery(cmd.Context(), cmd.OutOrStdout(), target, digit)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to a YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every generated level")
	pf.IntVar(&workers, "workers", 0, "goroutines per level (0 = number of CPUs)")
	pf.IntVar(&maxBudget, "max-budget", search.DefaultMaxBudget, "largest digit budget to explore")
	pf.StringVar(&mode, "mode", config.ModeBoth, "plain, extended or both")

	rootCmd.AddCommand(findCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func parseTarget(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("target must be an integer: %q", s)
	}
	return n, nil
}

func parseDigit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, fmt.Errorf("digit must be a single digit between 1 and 9: %q", s)
	}
	return int(s[0] - '0'), nil
}

func parseQuery(targetArg, digitArg string) (*big.Int, int, error) {
	target, err := parseTarget(targetArg)
	if err != nil {
		return nil, 0, err
	}
	digit, err := parseDigit(digitArg)
	if err != nil {
		return nil, 0, err
	}
	return target, digit, nil
}

func searchOptions() search.Options {
	return search.Options{
		Workers:   cfg.Search.Workers,
		MaxBudget: cfg.Search.MaxBudget,
		Logger:    logger,
	}
}

// runQuery runs the configured searches and prints their results to w.
func runQuery(ctx context.Context, w io.Writer, target *big.Int, digit int) error {
	opts := searchOptions()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n", cyan(fmt.Sprintf("%s using only the digit %d", target, digit)))

	switch cfg.Search.Mode {
	case config.ModePlain, config.ModeExtended:
		opts.Extended = cfg.Search.Mode == config.ModeExtended
		res, err := search.FindShortest(ctx, target, digit, opts)
		if err != nil {
			return err
		}
		printResult(w, res)
	default:
		plain, ext, err := search.FindBoth(ctx, target, digit, opts)
		if err != nil {
			return err
		}
		printOutcome(w, "plain", plain)
		printOutcome(w, "extended", ext)
	}
	return nil
}

// printOutcome prints the result of one mode, or why it has none.
func printOutcome(w io.Writer, label string, o search.Outcome) {
	if o.Err == nil {
		printResult(w, o.Result)
		return
	}
	red := color.New(color.FgRed).SprintFunc()
	msg := o.Err.Error()
	if errors.Is(o.Err, search.ErrBudgetExhausted) {
		msg = fmt.Sprintf("no representation found within limit (max budget %d)", cfg.Search.MaxBudget)
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", red(msg))
}

func printResult(w io.Writer, res *search.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	label := "plain"
	if res.Extended {
		label = "extended"
	}
	fmt.Fprintf(w, "  %-9s %s = %s\n", label+":", green(res.Term.Text()), res.Target)
	fmt.Fprintf(w, "  %-9s %d digits (budget %d, %v)\n", "", res.Cost, res.Budget, res.Elapsed.Round(time.Microsecond))
	if !res.Optimal {
		fmt.Fprintf(w, "  %-9s %s\n", "", yellow("budget limit reached, a shorter expression may exist"))
	}
}
