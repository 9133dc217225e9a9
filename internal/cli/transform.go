package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capdrop/capdrop/pkg/caption"
	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/pipeline"
)

// optionFlags binds the shared transform knobs to a command.
type optionFlags struct {
	operation    string
	rate         float64
	keepTokens   int
	keepSep      string
	separators   []string
	seed         int64
	noSeed       bool
	wolfCaptions bool
}

// register adds the shared flags, using config file values as defaults.
func (f *optionFlags) register(cmd *cobra.Command, cfg *configDefaults) {
	defaults := pipeline.Options{
		Operation:           pipeline.DefaultOperation,
		DropoutRate:         0.1,
		KeepTokensSeparator: caption.KeepMarker,
		Seed:                caption.DefaultSeed,
	}
	cfg.apply(&defaults)

	cmd.Flags().StringVarP(&f.operation, "op", "o", defaults.Operation, "operation: dropout, shuffle, or both")
	cmd.Flags().Float64VarP(&f.rate, "rate", "r", defaults.DropoutRate, "dropout rate (0.0-1.0)")
	cmd.Flags().IntVarP(&f.keepTokens, "keep-tokens", "k", defaults.KeepTokens, "number of leading tokens protected from dropout and shuffle")
	cmd.Flags().StringVar(&f.keepSep, "keep-separator", defaults.KeepTokensSeparator, "marker separating a fixed prefix from augmentable tokens")
	cmd.Flags().StringSliceVar(&f.separators, "separators", defaults.CaptionSeparators, "caption token separators, applied in order")
	cmd.Flags().Int64VarP(&f.seed, "seed", "s", defaults.Seed, "random seed for reproducible output")
	cmd.Flags().BoolVar(&f.noSeed, "no-seed", false, "use non-deterministic randomness instead of the seed")
	cmd.Flags().BoolVarP(&f.wolfCaptions, "wolf", "w", defaults.WolfCaptions, "rewrite sentence boundaries so full sentences drop as units")
}

// options builds pipeline options from the bound flags.
func (f *optionFlags) options(captionText string) pipeline.Options {
	return pipeline.Options{
		Caption:             captionText,
		Operation:           f.operation,
		DropoutRate:         f.rate,
		KeepTokens:          f.keepTokens,
		KeepTokensSeparator: f.keepSep,
		CaptionSeparators:   f.separators,
		Seed:                f.seed,
		UseSeed:             !f.noSeed,
		WolfCaptions:        f.wolfCaptions,
	}
}

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		flags optionFlags
		file  string
	)

	cmd := &cobra.Command{
		Use:   "transform [caption]",
		Short: "Apply a single dropout/shuffle transform to a caption",
		Long: `Transform applies one augmentation step to a caption and prints the result.

The caption is given inline or read from a file with --file. It is split
into tokens on the configured separators. Dropout removes each token with
probability --rate; shuffle permutes token order. Tokens protected with
--keep-tokens or a ||| marker survive unchanged.`,
		Example: `  capdrop transform "a cat, a hat, outdoors"
  capdrop transform --op shuffle "red hair, blue eyes, smiling"
  capdrop transform --op both --rate 0.5 --keep-tokens 1 "subject, pose, lighting"
  capdrop transform --wolf "A dog runs. A cat watches."
  capdrop transform --file dataset/img0001.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			captionText, err := captionArg(args, file)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, c.Logger)
			result, err := runner.Transform(cmd.Context(), flags.options(captionText))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.register(cmd, &c.config.Defaults)
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the caption from a file instead of the argument")
	return cmd
}

// captionArg resolves the caption from the positional argument or --file.
func captionArg(args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New(errors.ErrCodeInvalidInput, "pass a caption or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", file)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) > 0:
		return args[0], nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "a caption is required (argument or --file)")
	}
}
