package agent

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/schema"
)

var _ callbacks.Handler = (*LogCallbackHandler)(nil)

// LogCallbackHandler reports tool traffic and errors of one conversation.
type LogCallbackHandler struct {
	callbacks.SimpleHandler

	sessionID string
}

func (l LogCallbackHandler) HandleLLMError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "LLM error", "session_id", l.sessionID, "error", err)
}

func (l LogCallbackHandler) HandleChainError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Chain error", "session_id", l.sessionID, "error", err)
}

func (l LogCallbackHandler) HandleToolStart(ctx context.Context, input string) {
	slog.DebugContext(ctx, "Tool start", "session_id", l.sessionID, "input", input)
}

func (l LogCallbackHandler) HandleToolEnd(ctx context.Context, output string) {
	slog.DebugContext(ctx, "Tool end", "session_id", l.sessionID, "output", output)
}

func (l LogCallbackHandler) HandleToolError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Tool error", "session_id", l.sessionID, "error", err)
}

func (l LogCallbackHandler) HandleAgentAction(ctx context.Context, action schema.AgentAction) {
	slog.DebugContext(ctx, "Agent action",
		"session_id", l.sessionID,
		"tool", action.Tool,
		"tool_input", action.ToolInput,
	)
}
