package agent

import (
	"context"
	"fmt"
	"strings"

	vtools "voicedesk/app/service/tools"

	"github.com/tmc/langchaingo/tools"
)

type agentTool struct {
	name        string
	description string
	call        func(ctx context.Context, input string) (string, error)
}

func (m *agentTool) Name() string {
	return m.name
}

func (m *agentTool) Description() string {
	return m.description
}

func (m *agentTool) Call(ctx context.Context, input string) (string, error) {
	return m.call(ctx, input)
}

// BindTools turns tool definitions into langchaingo tools working on session s.
func BindTools[S any](defs []vtools.Tool[S], s S) []tools.Tool {
	result := make([]tools.Tool, 0, len(defs))

	for _, def := range defs {
		call := def.Bind(s)
		params := def.Params

		result = append(result, &agentTool{
			name:        def.Name,
			description: def.Description + " " + def.InputHint(),
			call: func(ctx context.Context, input string) (string, error) {
				args, err := vtools.ParseInput(input, params)
				if err != nil {
					return fmt.Sprintf("Could not read the input: %v. %s", err, def.InputHint()), nil
				}

				if missing := vtools.Missing(params, args); len(missing) > 0 {
					return fmt.Sprintf("Missing input fields: %s.", strings.Join(missing, ", ")), nil
				}

				return call(ctx, args)
			},
		})
	}

	return result
}
