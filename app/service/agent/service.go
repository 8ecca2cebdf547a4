package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"voicedesk/app/config"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/tools"
)

const (
	speakerUser      = "user"
	speakerAssistant = "assistant"
)

var ErrEmptyReply = errors.New("empty reply")

type Service struct {
	cfg *config.Config
	llm llms.Model
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAI.Token),
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithHTTPClient(&http.Client{
			Timeout: 30 * time.Second,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	return NewService(cfg, llm), nil
}

func NewService(cfg *config.Config, llm llms.Model) *Service {
	return &Service{
		cfg: cfg,
		llm: llm,
	}
}

// Conversation is one assistant dialogue with its own memory and tools.
type Conversation struct {
	id         string
	executor   *agents.Executor
	timeout    time.Duration
	transcript Transcript
}

// NewConversation prepares a dialogue following instructions and allowed to call
// the given tools.
func (s *Service) NewConversation(id, instructions string, toolset []tools.Tool) *Conversation {
	handler := LogCallbackHandler{sessionID: id}

	agent := agents.NewConversationalAgent(s.llm, toolset,
		agents.WithPromptPrefix(promptPrefix(instructions)),
		agents.WithCallbacksHandler(handler),
	)

	executor := agents.NewExecutor(agent,
		agents.WithMemory(memory.NewConversationBuffer()),
		agents.WithMaxIterations(s.cfg.Agent.MaxIterations),
		agents.WithParserErrorHandler(agents.NewParserErrorHandler(nil)),
		agents.WithCallbacksHandler(handler),
	)

	return &Conversation{
		id:       id,
		executor: executor,
		timeout:  s.cfg.Agent.TurnTimeout,
	}
}

func (c *Conversation) ID() string {
	return c.id
}

func (c *Conversation) Transcript() *Transcript {
	return &c.transcript
}

// Reply runs one user turn, letting the model call tools, and returns what the
// assistant says back.
func (c *Conversation) Reply(ctx context.Context, text string) (string, error) {
	c.transcript.add(speakerUser, text)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	outputs, err := chains.Call(ctx, c.executor, map[string]any{
		"input": text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run agent: %w", err)
	}

	reply, _ := outputs["output"].(string)
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}

	c.transcript.add(speakerAssistant, reply)

	slog.DebugContext(ctx, "Turn processed",
		"session_id", c.id,
		"duration", time.Since(start),
	)

	return reply, nil
}

// promptPrefix puts the assistant instructions in front of the tool list the
// conversational agent expects. Instructions are plain text, so template braces are
// broken up.
func promptPrefix(instructions string) string {
	instructions = strings.ReplaceAll(instructions, "{{", "{ {")
	instructions = strings.ReplaceAll(instructions, "}}", "} }")

	return strings.TrimSpace(instructions) + `

TOOLS:
------

You have access to the following tools:

{{.tool_descriptions}}`
}
