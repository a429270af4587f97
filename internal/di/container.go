package di

import (
	"context"
	"fmt"

	"guiagent/internal/application/port/input"
	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/codeexec"
	"guiagent/internal/infrastructure/config"
	"guiagent/internal/infrastructure/inputbackend"
	"guiagent/internal/infrastructure/llm/anthropic"
	"guiagent/internal/infrastructure/llm/grounding"
	"guiagent/internal/infrastructure/llm/openai"
	"guiagent/internal/infrastructure/logger"
	"guiagent/internal/infrastructure/screen"
	"guiagent/internal/infrastructure/spreadsheet"
	"guiagent/internal/usecase/codeagent"
	"guiagent/internal/usecase/grounder"
	"guiagent/internal/usecase/orchestrator"
	"guiagent/internal/usecase/reflector"
	"guiagent/internal/usecase/worker"
)

// Config is every knob the CLI surface exposes, plus the secrets an
// EnvService supplies.
type Config struct {
	Provider        string // "openai" | "anthropic"
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	GroundProvider string // "openai" | "anthropic"; ignored when GroundURL is set
	GroundModel    string
	GroundURL      string

	GroundingWidth  int
	GroundingHeight int

	Platform output.Platform

	LongContext         bool
	MaxImages           int
	MaxTrajectoryLength int
	MaxSteps            int
	CodeAgentBudget     int

	TaskName string
}

// Container holds every wired collaborator for one task run. Built
// once per process invocation, matching the CLI contract of one
// instruction per process.
type Container struct {
	Logger       output.LoggerPort
	TaskExecutor input.TaskExecutor

	Knowledge *entity.KnowledgeBuffer
}

// NewContainer wires C1 through C9: provider adapters selected by
// Config.Provider/GroundProvider, reference screen/input/OCR/
// spreadsheet implementations (the real OS/OCR/spreadsheet
// collaborators are out of scope), a platform strategy loaded from the
// YAML table, and the Grounder/CodeAgent/Worker/Reflector/Orchestrator
// usecase chain.
func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.TaskName)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	mainLLM, err := buildLLM(cfg.Provider, cfg.Model, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build provider %q: %w", cfg.Provider, err)
	}

	groundLLM, err := buildGroundLLM(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build ground provider %q: %w", cfg.GroundProvider, err)
	}

	platform := cfg.Platform
	if platform == "" {
		platform = output.PlatformLinux
	}
	strategy, err := config.LoadPlatformStrategy(platform)
	if err != nil {
		return nil, fmt.Errorf("load platform strategy: %w", err)
	}

	knowledge := entity.NewKnowledgeBuffer()
	spreadsheetDriver := spreadsheet.NewNoopDriver()

	screenSource := screen.NewSyntheticSource(1920, 1080)
	textLocator := screen.NewFixtureLocator(nil)
	inputBackend := inputbackend.NewRecorder()

	codeExecutor := codeexec.NewSubprocess(codeexec.NewStarlarkExecutor())
	codeAgentRunner := codeagent.New(codeagent.Config{
		LLM:      mainLLM,
		Executor: codeExecutor,
		Logger:   log,
		Budget:   cfg.CodeAgentBudget,
	})

	ground := grounder.New(grounder.Config{
		LLM:             groundLLM,
		OCR:             textLocator,
		Platform:        strategy,
		Spreadsheet:     spreadsheetDriver,
		CodeAgent:       codeAgentRunner,
		Knowledge:       knowledge,
		Logger:          log,
		GroundingWidth:  cfg.GroundingWidth,
		GroundingHeight: cfg.GroundingHeight,
	})

	w := worker.New(worker.Config{
		LLM:                 mainLLM,
		Grounder:            ground,
		Knowledge:           knowledge,
		Logger:              log,
		LongContext:         cfg.LongContext,
		MaxImages:           cfg.MaxImages,
		MaxTrajectoryLength: cfg.MaxTrajectoryLength,
	})

	r := reflector.New(reflector.Config{
		LLM:                 mainLLM,
		Logger:              log,
		LongContext:         cfg.LongContext,
		MaxImages:           cfg.MaxImages,
		MaxTrajectoryLength: cfg.MaxTrajectoryLength,
	})

	orch := orchestrator.New(orchestrator.Config{
		ScreenSource:    screenSource,
		InputBackend:    inputBackend,
		Worker:          w,
		Reflector:       &reflectorAdapter{r: r},
		Logger:          log,
		GroundingWidth:  cfg.GroundingWidth,
		GroundingHeight: cfg.GroundingHeight,
		MaxSteps:        cfg.MaxSteps,
	})

	return &Container{
		Logger:       log,
		TaskExecutor: orch,
		Knowledge:    knowledge,
	}, nil
}

func (c *Container) Close() error {
	return c.Logger.Close()
}

func buildLLM(provider, model string, cfg Config, log output.LoggerPort) (output.LLMPort, error) {
	switch provider {
	case "", "openai":
		return openai.New(openai.Config{APIKey: cfg.OpenAIAPIKey, Model: model, Logger: log}), nil
	case "anthropic":
		return anthropic.New(anthropic.Config{APIKey: cfg.AnthropicAPIKey, Model: model, Logger: log})
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

func buildGroundLLM(cfg Config, log output.LoggerPort) (output.LLMPort, error) {
	if cfg.GroundURL != "" {
		return grounding.New(grounding.Config{
			BaseURL: cfg.GroundURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.GroundModel,
			Logger:  log,
		}), nil
	}
	return buildLLM(cfg.GroundProvider, cfg.GroundModel, cfg, log)
}

// reflectorAdapter narrows reflector.Reflector's richer Review return
// type (it exposes its own Verdict enum) down to the
// orchestrator.Reflector interface, which intentionally doesn't
// depend on that package.
type reflectorAdapter struct {
	r *reflector.Reflector
}

func (a *reflectorAdapter) Register(ctx context.Context, instruction string, obs entity.Observation) error {
	return a.r.Register(ctx, instruction, obs)
}

func (a *reflectorAdapter) Review(ctx context.Context, planText string, obs entity.Observation) (orchestrator.Review, error) {
	review, err := a.r.Review(ctx, planText, obs)
	if err != nil {
		return orchestrator.Review{}, err
	}
	return orchestrator.Review{Text: review.Text, Thoughts: review.Thoughts}, nil
}
