package main

import (
	"fmt"

	"github.com/genforge/genforge/internal/planner"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec-file>",
	Short: "Plan an ActivitySpec and report the resulting slots without calling an LLM or judge",
	Long: `validate runs only Planner against an ActivitySpec: it reports the
slots the spec would expand into (difficulty, topics, constraints) and
fails fast on any structural error, without spending an LLM call or a
judge submission.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	spec, err := loadActivitySpec(args[0])
	if err != nil {
		return err
	}

	slots, err := planner.Plan(spec)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d slot(s) planned\n", args[0], len(slots))
	for _, slot := range slots {
		topics := slot.PrimaryTopic()
		if secondary := slot.SecondaryTopic(); secondary != "" {
			topics += ", " + secondary
		}
		fmt.Fprintf(out, "  slot %d: %s/%s topics=[%s] test_cases=%d\n",
			slot.Index, slot.Language, slot.Difficulty, topics, slot.TestCaseCount)
	}
	return nil
}
