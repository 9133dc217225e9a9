package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/capdrop/capdrop/pkg/pipeline"
)

// previewSteps bounds the number of step results printed in the default
// (non-interactive) output; the full list is available via --json or the
// interactive browser.
const previewSteps = 10

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		flags       optionFlags
		file        string
		steps       int
		interactive bool
		asJSON      bool
		noCache     bool
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [caption]",
		Short: "Run many transform steps and summarize token statistics",
		Long: `Simulate applies the transform repeatedly, the way a training run would,
and reports per-step results plus token statistics: how often each token
survived, and how the token count varied across steps.

Seeded runs are deterministic and their results are cached; --refresh
recomputes, --no-cache disables the cache entirely.`,
		Example: `  capdrop simulate "a cat, a hat, outdoors" --steps 200
  capdrop simulate --file dataset/img0001.txt --steps 500
  capdrop simulate --op both --rate 0.5 "a, b, c, d" --interactive
  capdrop simulate "a, b, c" --json | jq .stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			captionText, err := captionArg(args, file)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			runner := c.newRunner(noCache)

			opts := flags.options(captionText)
			opts.Steps = steps
			opts.Refresh = refresh

			prog := newProgress(logger)
			result, err := runner.Simulate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Simulated %d steps", len(result.Steps)))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			if interactive {
				model := newStepsModel(captionText, result)
				_, err := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout())).Run()
				return err
			}

			printSimulation(captionText, result)
			return nil
		},
	}

	flags.register(cmd, &c.config.Defaults)
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the caption from a file instead of the argument")
	cmd.Flags().IntVarP(&steps, "steps", "n", pipeline.DefaultSteps, "number of simulation steps")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse step results interactively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	return cmd
}

// printSimulation renders the default text report.
func printSimulation(captionText string, result *pipeline.Result) {
	printNewline()
	printKeyValue("caption", captionText)
	printStats(result.Stats.Steps, result.Stats.MinTokens, result.Stats.MaxTokens,
		result.Stats.MeanTokens, result.Cached)
	printNewline()

	n := min(len(result.Steps), previewSteps)
	for i, step := range result.Steps[:n] {
		out := step
		if out == "" {
			out = StyleDim.Render("(empty)")
		}
		fmt.Printf("  %s %s\n", StyleDim.Render(fmt.Sprintf("%3d", i+1)), out)
	}
	if len(result.Steps) > n {
		printDetail("… %d more steps (use --interactive or --json)", len(result.Steps)-n)
	}

	printNewline()
	printInfo("Token survival:")
	for _, tf := range sortedFrequencies(result) {
		bar := frequencyBar(tf.count, result.Stats.Steps)
		fmt.Printf("  %s %s %s\n",
			StyleValue.Render(fmt.Sprintf("%-30.30s", tf.token)),
			bar,
			StyleDim.Render(fmt.Sprintf("%d/%d", tf.count, result.Stats.Steps)))
	}
}

type tokenFreq struct {
	token string
	count int
}

// sortedFrequencies orders tokens by survival count, most frequent first.
func sortedFrequencies(result *pipeline.Result) []tokenFreq {
	freqs := make([]tokenFreq, 0, len(result.Stats.Frequency))
	for token, count := range result.Stats.Frequency {
		freqs = append(freqs, tokenFreq{token, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return freqs[i].token < freqs[j].token
	})
	return freqs
}

// frequencyBar renders a proportional bar for a token's survival count.
func frequencyBar(count, total int) string {
	const width = 20
	if total <= 0 {
		total = 1
	}
	filled := count * width / total
	bar := ""
	for i := range width {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return StyleHighlight.Render(bar)
}
