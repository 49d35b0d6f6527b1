package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/concreto/internal/domain/mix"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <cement> <sand> <water>",
		Short: "Rescale a mix so it sums to 100%",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseComposition(args)
			if err != nil {
				return err
			}

			balanced, err := mix.Balance(m)
			if err != nil {
				return err
			}

			text := fmt.Sprintf("cement %g%%  sand %g%%  water %g%%", balanced.Cement, balanced.Sand, balanced.Water)
			return rootOpts.emit(cmd.OutOrStdout(), text, balanced)
		},
	}
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	var cement, water float64

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest the next mix from the last one",
		Long: `Suggest the next mix from the last mix's cement and water share.

Without flags the suggestion is the one given to an operator with no history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var history []models.MixRecord
			if cmd.Flags().Changed("cement") || cmd.Flags().Changed("water") {
				history = []models.MixRecord{{
					MixComposition: models.MixComposition{Cement: cement, Sand: mix.TargetTotal - cement - water, Water: water},
				}}
			}

			rec := mix.Recommend(history)
			text := fmt.Sprintf("%s\nrecommended: cement %g%%  sand %g%%  water %g%%",
				rec.Message, rec.Recommended.Cement, rec.Recommended.Sand, rec.Recommended.Water)
			return rootOpts.emit(cmd.OutOrStdout(), text, rec)
		},
	}

	cmd.Flags().Float64Var(&cement, "cement", 0, "cement percentage of the last mix")
	cmd.Flags().Float64Var(&water, "water", 0, "water percentage of the last mix")
	return cmd
}

func parseComposition(args []string) (models.MixComposition, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return models.MixComposition{}, fmt.Errorf("invalid percentage %q: %w", arg, err)
		}
		if v < 0 {
			return models.MixComposition{}, fmt.Errorf("percentage %q must not be negative", arg)
		}
		values[i] = v
	}
	return models.MixComposition{Cement: values[0], Sand: values[1], Water: values[2]}, nil
}
