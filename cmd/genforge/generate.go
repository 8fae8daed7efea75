package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/genforge/genforge/internal/cache"
	"github.com/genforge/genforge/internal/config"
	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/judge"
	"github.com/genforge/genforge/internal/llm"
	"github.com/genforge/genforge/internal/pipeline"
	"github.com/genforge/genforge/internal/progress"
	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

var (
	generateOutputPath string
	generateImagesFlag string
)

var generateCmd = &cobra.Command{
	Use:   "generate <spec-file>",
	Short: "Run the full generation pipeline against an ActivitySpec file",
	Long: `generate loads a YAML or JSON ActivitySpec, plans it into problem
slots, and drives each slot through the generator, reference executor, and
test-strength gate until every slot is ready or the run fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutputPath, "output", "o", "", "write the generated problems as JSON to this path (default: stdout)")
	generateCmd.Flags().StringVar(&generateImagesFlag, "images", "", "path to a YAML file mapping language -> docker image (default: built-in images)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	spec, err := loadActivitySpec(args[0])
	if err != nil {
		return err
	}

	client, err := buildLLMClient(cfg)
	if err != nil {
		return fmt.Errorf("generate: building llm client: %w", err)
	}

	images, err := loadJudgeImages(generateImagesFlag)
	if err != nil {
		return err
	}
	judgeTimeout := cfg.JudgeTimeout()
	dockerJudge := judge.NewDockerJudge(images, judgeTimeout)

	runMemo := cache.NewManager(logger, 0)
	cachedClient := cache.NewCachingClient(client, runMemo)
	cachedJudge := cache.NewCachingJudge(dockerJudge, runMemo)

	generator := pipeline.NewGenerator(cachedClient, cfg.LLM.Model)
	referenceExecutor := pipeline.NewReferenceExecutor(cachedJudge)
	strengthGate := pipeline.NewTestStrengthGate(cachedJudge)

	rc := genmodel.NewRunContext(nil)

	db, err := bolt.Open(cfg.Progress.BufferPath, 0644, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("generate: opening progress store: %w", err)
	}
	defer db.Close()

	stream, err := progress.NewStream(db, rc.RunID, cfg.Progress.BufferSize)
	if err != nil {
		return fmt.Errorf("generate: opening progress stream: %w", err)
	}
	defer stream.Close()

	stderr := cmd.ErrOrStderr()
	ch, cancel := stream.Subscribe()
	defer cancel()
	go func() {
		for evt := range ch {
			fmt.Fprintf(stderr, "[%s] slot=%d attempt=%d %s\n", evt.Type, evt.SlotIndex, evt.Attempt, evt.Message)
		}
	}()

	p := pipeline.NewPipeline(generator, referenceExecutor, strengthGate, stream)

	drafts, err := p.Run(context.Background(), spec, rc)
	if err != nil {
		return fmt.Errorf("generate: run %s failed: %w", rc.RunID, err)
	}

	return writeDrafts(drafts)
}

func loadActivitySpec(path string) (genmodel.ActivitySpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return genmodel.ActivitySpec{}, fmt.Errorf("reading activity spec: %w", err)
	}

	var spec genmodel.ActivitySpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return genmodel.ActivitySpec{}, fmt.Errorf("parsing activity spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return genmodel.ActivitySpec{}, err
	}
	return spec, nil
}

func loadJudgeImages(path string) (map[genmodel.Language]string, error) {
	if path == "" {
		return defaultJudgeImages(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading judge image map: %w", err)
	}
	images := defaultJudgeImages()
	if err := yaml.Unmarshal(raw, &images); err != nil {
		return nil, fmt.Errorf("parsing judge image map: %w", err)
	}
	return images, nil
}

func defaultJudgeImages() map[genmodel.Language]string {
	return map[genmodel.Language]string{
		genmodel.LanguageJava:   "genforge-judge-java:latest",
		genmodel.LanguagePython: "genforge-judge-python:latest",
		genmodel.LanguageCPP:    "genforge-judge-cpp:latest",
		genmodel.LanguageSQL:    "genforge-judge-sql:latest",
	}
}

func buildLLMClient(cfg *config.Config) (llm.Client, error) {
	var client llm.Client
	var err error

	switch cfg.LLM.Provider {
	case "gemini":
		client, err = llm.NewGeminiClient(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model)
	case "openai", "":
		client, err = llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	return llm.NewRateLimitedClient(client, llm.DefaultRPM, llm.DefaultTPM, 4000), nil
}

func writeDrafts(drafts []genmodel.GeneratedProblemDraftExternal) error {
	payload, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling generated problems: %w", err)
	}

	if generateOutputPath == "" {
		fmt.Println(string(payload))
		return nil
	}
	if err := os.WriteFile(generateOutputPath, payload, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Printf("wrote %d problems to %s\n", len(drafts), generateOutputPath)
	return nil
}
