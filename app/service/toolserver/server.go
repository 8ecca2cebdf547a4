// Package toolserver exposes the assistant tools over MCP so an external voice
// framework can drive the conversation. Every MCP client session gets its own
// assistant session.
package toolserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"voicedesk/app/config"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/session"
	"voicedesk/app/service/tools"
	"voicedesk/app/service/wellness"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverVersion = "1.0.0"
	promptName    = "instructions"

	// localSessionID is used when the transport carries no client session.
	localSessionID = "local"
)

type Server struct {
	cfg *config.Config
	mcp *server.MCPServer
}

func NewWellness(cfg *config.Config, svc *wellness.Service) *Server {
	return newServer(cfg, "wellness-companion", tools.Wellness(), svc.Sessions(),
		func(s *wellness.Session) string {
			return s.Instructions()
		})
}

func NewCoffee(cfg *config.Config, svc *coffee.Service) *Server {
	return newServer(cfg, "coffee-barista", tools.Coffee(), svc.Sessions(),
		func(*coffee.Session) string {
			return svc.Instructions()
		})
}

func newServer[S any](
	cfg *config.Config,
	name string,
	defs []tools.Tool[S],
	sessions *session.Registry[S],
	instructions func(S) string,
) *Server {
	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(_ context.Context, cs server.ClientSession) {
		if _, ok := sessions.Close(cs.SessionID()); ok {
			slog.Info("MCP session ended", "session_id", cs.SessionID())
		}
	})

	s := server.NewMCPServer(name, serverVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithHooks(hooks),
	)

	for _, def := range defs {
		s.AddTool(mcpTool(def), toolHandler(def, sessions))
	}

	s.AddPrompt(
		mcp.NewPrompt(promptName,
			mcp.WithPromptDescription("Assistant instructions for the current session"),
		),
		func(ctx context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			sess, err := sessions.Open(ctx, sessionID(ctx))
			if err != nil {
				return nil, err
			}

			return mcp.NewGetPromptResult("Assistant instructions", []mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(instructions(sess))),
			}), nil
		},
	)

	return &Server{
		cfg: cfg,
		mcp: s,
	}
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves a single client on stdin/stdout until it disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves streamable HTTP clients on the configured address until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening", "addr", s.cfg.Server.MCPAddr)
		errCh <- httpServer.Start(s.cfg.Server.MCPAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	}
}

func mcpTool[S any](def tools.Tool[S]) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(def.Description),
	}

	for _, p := range def.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}

		switch p.Type {
		case tools.TypeStringList:
			props = append(props, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}

func toolHandler[S any](def tools.Tool[S], sessions *session.Registry[S]) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := tools.Args(request.GetArguments())

		if missing := tools.Missing(def.Params, args); len(missing) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("missing arguments: %s", strings.Join(missing, ", "))), nil
		}

		id := sessionID(ctx)

		sess, err := sessions.Open(ctx, id)
		if err != nil {
			return nil, err
		}

		text, err := def.Call(ctx, sess, args)
		if err != nil {
			slog.ErrorContext(ctx, "Tool failed",
				"tool", def.Name,
				"session_id", id,
				"error", err,
			)
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(text), nil
	}
}

func sessionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}

	return localSessionID
}
