package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
)

func newCallCmd(a *App) *cobra.Command {
	var (
		pairs  []string
		header string
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Run one tool and print its text result",
		Example: `  sprintdesk call create_space --arg name=Platform --arg owner_id=u1 --arg methodology=SCRUM
  sprintdesk call get_board --context "[CONTEXT: space_id='s1']"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseToolArgs(pairs)
			if err != nil {
				return err
			}
			if header != "" {
				values, _ := chatctx.Parse(header)
				if values.IsEmpty() {
					return errors.New(`--context must look like [CONTEXT: space_id='...']`)
				}
				if spec, ok := dispatch.Lookup(args[0]); ok {
					raw = values.Merge(raw, spec.FillsFromContext)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Core.Dispatcher.Call(cmd.Context(), args[0], raw))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "tool argument as key=value (repeatable)")
	cmd.Flags().StringVar(&header, "context", "", "context header filling missing identifiers")

	return cmd
}

// parseToolArgs turns key=value pairs into tool arguments. Values stay
// strings; the dispatcher coerces numeric parameters.
func parseToolArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q must be key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

func newToolsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToolCatalog(dispatch.Catalog()))
			return nil
		},
	}
}
