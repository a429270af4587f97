package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"guiagent/internal/di"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/env"
)

const (
	exitSuccess         = 0
	exitUnrecoverable   = 1
	exitBudgetExhausted = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	provider := flag.String("provider", "openai", "LLM provider for the Worker/Reflector/Code sub-agent: openai|anthropic")
	model := flag.String("model", "gpt-4o", "model name for --provider")
	groundProvider := flag.String("ground_provider", "", "LLM provider for the Grounder; defaults to --provider")
	groundModel := flag.String("ground_model", "", "model name for --ground_provider; defaults to --model")
	groundURL := flag.String("ground_url", "", "base URL of the auxiliary grounding-model HTTP server, if any")
	groundingWidth := flag.Int("grounding_width", 1000, "grounding-space canvas width")
	groundingHeight := flag.Int("grounding_height", 1000, "grounding-space canvas height")
	maxSteps := flag.Int("max_steps", 15, "orchestrator step budget")
	flag.Parse()

	instruction := flag.Arg(0)
	if instruction == "" {
		fmt.Fprintln(os.Stderr, "usage: agent [flags] \"<instruction>\"")
		return exitUnrecoverable
	}

	envService := env.NewEnvService()

	gp := *groundProvider
	if gp == "" {
		gp = *provider
	}
	gm := *groundModel
	if gm == "" {
		gm = *model
	}

	groundingURL := *groundURL
	if groundingURL == "" {
		groundingURL = envService.GetWithDefault("GROUNDING_URL", "")
	}

	container, err := di.NewContainer(di.Config{
		Provider:        *provider,
		Model:           *model,
		OpenAIAPIKey:    envService.Get("OPENAI_API_KEY"),
		AnthropicAPIKey: envService.Get("ANTHROPIC_API_KEY"),
		GroundProvider:  gp,
		GroundModel:     gm,
		GroundURL:       groundingURL,
		GroundingWidth:  *groundingWidth,
		GroundingHeight: *groundingHeight,
		MaxSteps:        *maxSteps,
		TaskName:        instruction,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		return exitUnrecoverable
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	container.Logger.Info("task started", "instruction", instruction)

	result, err := container.TaskExecutor.Execute(ctx, instruction)
	if err != nil {
		container.Logger.Error("task failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUnrecoverable
	}

	container.Logger.Info("task finished",
		"state", result.FinalState,
		"steps", result.StepsTaken,
		"turn_count", result.Meta.TurnCount,
		"max_trajectory_length", result.Meta.MaxTrajectoryLength,
		"max_images", result.Meta.MaxImages,
	)

	switch result.FinalState {
	case entity.StateSucceeded:
		fmt.Println(result.FinalAnswer)
		return exitSuccess
	case entity.StateBudgetExhausted:
		fmt.Fprintln(os.Stderr, "budget exhausted before the task completed")
		return exitBudgetExhausted
	default:
		fmt.Fprintf(os.Stderr, "task ended in state %q\n", result.FinalState)
		return exitUnrecoverable
	}
}
