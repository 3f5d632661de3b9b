package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Answer queries interactively",
	Long: `Starts an interactive shell. Each line is a query "<target> <digit>";
"help" lists the commands, "exit" or Ctrl+D leaves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cyan := color.New(color.FgCyan).SprintFunc()
		rl, err := readline.NewEx(&readline.Config{
			Prompt:            cyan("digits> "),
			InterruptPrompt:   "^C",
			EOFPrompt:         "exit",
			HistorySearchFold: true,
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()

		fmt.Fprintln(rl.Stdout(), "Enter <target> <digit>, e.g. 1999 7. Type help for commands.")
		return replLoop(cmd.Context(), rl.Readline, rl.Stdout())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// replLoop reads lines until EOF or exit and answers each query.
func replLoop(ctx context.Context, readLine func() (string, error), w io.Writer) error {
	red := color.New(color.FgRed).SprintFunc()
	for {
		line, err := readLine()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := replLine(ctx, w, line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(w, "%s %v\n", red("Error:"), err)
		}
	}
}

func replLine(ctx context.Context, w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "exit", "quit":
		return io.EOF
	case "help", "?":
		fmt.Fprintln(w, "  <target> <digit>  find the shortest expression for target")
		fmt.Fprintln(w, "  help              show this help")
		fmt.Fprintln(w, "  exit              leave the shell")
		return nil
	}
	if len(fields) != 2 {
		return fmt.Errorf("expected <target> <digit>, got %q", line)
	}
	target, digit, err := parseQuery(fields[0], fields[1])
	if err != nil {
		return err
	}
	return runQuery(ctx, w, target, digit)
}
