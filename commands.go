package main

import (
	"fmt"
	"log/slog"

	"voicedesk/app/config"
	"voicedesk/app/service/api"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/engine"
	"voicedesk/app/service/toolserver"
	"voicedesk/app/service/wellness"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func assistantCmd(mode engine.Mode, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Talk to the assistant by typing",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConversation(mode, engine.InputText)
			},
		},
		&cobra.Command{
			Use:   "voice",
			Short: "Talk to the assistant through the microphone",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConversation(mode, engine.InputVoice)
			},
		},
		mcpCmd(mode),
	)

	return cmd
}

func runConversation(mode engine.Mode, input engine.Input) error {
	di, ctx, cancel, err := bootstrap()
	if err != nil {
		return err
	}
	defer cancel()
	defer di.Shutdown()

	return do.MustInvoke[*engine.Service](di).Run(ctx, mode, input)
}

func mcpCmd(mode engine.Mode) *cobra.Command {
	var overHTTP bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the assistant tools to a voice framework over MCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			di, ctx, cancel, err := bootstrap()
			if err != nil {
				return err
			}
			defer cancel()
			defer di.Shutdown()

			cfg := do.MustInvoke[*config.Config](di)

			var srv *toolserver.Server
			switch mode {
			case engine.ModeWellness:
				srv = toolserver.NewWellness(cfg, do.MustInvoke[*wellness.Service](di))
			case engine.ModeCoffee:
				srv = toolserver.NewCoffee(cfg, do.MustInvoke[*coffee.Service](di))
			default:
				return fmt.Errorf("unknown mode %q", mode)
			}

			if overHTTP {
				return srv.ServeHTTP(ctx)
			}

			slog.Info("MCP server on stdio", "mode", mode)
			return srv.ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&overHTTP, "http", false, "serve streamable HTTP on server.mcp_addr instead of stdio")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve saved check-ins and orders over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			di, ctx, cancel, err := bootstrap()
			if err != nil {
				return err
			}
			defer cancel()
			defer di.Shutdown()

			return do.MustInvoke[*api.Service](di).Run(ctx)
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the summary of the last wellness check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			di, _, cancel, err := bootstrap()
			if err != nil {
				return err
			}
			defer cancel()
			defer di.Shutdown()

			store := do.MustInvoke[*wellness.Service](di).Store()
			entries := store.History()

			fmt.Fprintf(cmd.OutOrStdout(), "%d check-ins in %s\n", len(entries), store.Path())
			fmt.Fprintln(cmd.OutOrStdout(), wellness.Summarize(entries))

			return nil
		},
	}
}
