package main

import (
	"fmt"
	"os"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initLanguage string
	initOutput   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter ActivitySpec YAML file",
	Long: `init writes a minimal, valid ActivitySpec to disk so a user can
edit it by hand before running generate, rather than writing the YAML
shape from scratch.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initLanguage, "language", "python", "language for the scaffolded spec (java, python, cpp, sql)")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "activity.yaml", "path to write the scaffolded spec")
}

func runInit(cmd *cobra.Command, args []string) error {
	lang := genmodel.Language(initLanguage)
	switch lang {
	case genmodel.LanguageJava, genmodel.LanguagePython, genmodel.LanguageCPP, genmodel.LanguageSQL:
	default:
		return fmt.Errorf("init: unsupported language %q", initLanguage)
	}

	spec := genmodel.ActivitySpec{
		Language:     lang,
		ProblemCount: 2,
		DifficultyPlan: []genmodel.DifficultyCount{
			{Difficulty: genmodel.DifficultyEasy, Count: 1},
			{Difficulty: genmodel.DifficultyMedium, Count: 1},
		},
		TopicTags:             []string{"loops", "conditionals"},
		ProblemStyle:          genmodel.StyleReturn,
		Constraints:           "1 <= n <= 1000",
		ExplicitHardRequested: false,
	}

	if err := spec.Validate(); err != nil {
		return fmt.Errorf("init: scaffolded spec failed validation: %w", err)
	}

	payload, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("init: marshaling scaffold: %w", err)
	}

	if err := os.WriteFile(initOutput, payload, 0644); err != nil {
		return fmt.Errorf("init: writing %s: %w", initOutput, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote scaffold activity spec to %s\n", initOutput)
	return nil
}
