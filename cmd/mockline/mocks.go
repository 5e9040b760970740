package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mockline/internal/domain"
	"mockline/internal/engine"
)

func mockCmd() *cobra.Command {
	m := &cobra.Command{Use: "mock", Short: "Manage mock APIs"}
	m.AddCommand(mockListCmd())
	m.AddCommand(mockCreateCmd())
	m.AddCommand(mockShowCmd())
	m.AddCommand(mockUpdateCmd())
	m.AddCommand(mockDeleteCmd())
	m.AddCommand(mockServeCmd())
	return m
}

// mockFlags collects the writable mock fields; only flags set on the command
// line end up in the engine input.
type mockFlags struct {
	endpoint     string
	method       string
	statusCode   int
	delayMs      int
	chaosEnabled bool
	chaosLevel   int
	template     string
	templateFile string
}

func (f *mockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "endpoint label")
	cmd.Flags().StringVar(&f.method, "method", "GET", "HTTP method label")
	cmd.Flags().IntVar(&f.statusCode, "status", 200, "status code served")
	cmd.Flags().IntVar(&f.delayMs, "delay", 0, "delay before responding, in ms")
	cmd.Flags().BoolVar(&f.chaosEnabled, "chaos", false, "enable chaos")
	cmd.Flags().IntVar(&f.chaosLevel, "chaos-level", 0, "chaos probability (0-100)")
	cmd.Flags().StringVar(&f.template, "template", "", "JSON template text")
	cmd.Flags().StringVar(&f.templateFile, "template-file", "", "path to a JSON template")
}

func (f *mockFlags) input(cmd *cobra.Command) (engine.MockInput, error) {
	var in engine.MockInput
	changed := cmd.Flags().Changed
	if changed("endpoint") {
		in.Endpoint = &f.endpoint
	}
	if changed("method") {
		in.Method = &f.method
	}
	if changed("status") {
		in.StatusCode = &f.statusCode
	}
	if changed("delay") {
		in.DelayMs = &f.delayMs
	}
	if changed("chaos") {
		in.ChaosEnabled = &f.chaosEnabled
	}
	if changed("chaos-level") {
		in.ChaosLevel = &f.chaosLevel
	}
	switch {
	case changed("template") && changed("template-file"):
		return engine.MockInput{}, fmt.Errorf("use either --template or --template-file")
	case changed("template"):
		in.Template = &f.template
	case changed("template-file"):
		data, err := os.ReadFile(f.templateFile)
		if err != nil {
			return engine.MockInput{}, err
		}
		text := string(data)
		in.Template = &text
	}
	return in, nil
}

func mockListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your mocks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ListMocks(ctx, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				printMockTable(items)
				return nil
			})
		},
	}
}

func mockCreateCmd() *cobra.Command {
	var f mockFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mock",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input(cmd)
			if err != nil {
				return err
			}
			if in.Endpoint == nil {
				return fmt.Errorf("--endpoint required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				m, err := e.CreateMock(ctx, viper.GetString("actor-id"), in)
				if err != nil {
					return err
				}
				return printMock(m)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func mockShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a mock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				m, err := e.GetMock(ctx, viper.GetString("actor-id"), args[0])
				if err != nil {
					return err
				}
				return printMock(m)
			})
		},
	}
}

func mockUpdateCmd() *cobra.Command {
	var f mockFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a mock; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input(cmd)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				m, err := e.UpdateMock(ctx, viper.GetString("actor-id"), args[0], in)
				if err != nil {
					return err
				}
				return printMock(m)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func mockDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := e.DeleteMock(ctx, viper.GetString("actor-id"), args[0]); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]bool{"success": true})
				}
				fmt.Printf("Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func mockServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <mockId>",
		Short: "Produce one response for a mock, chaos included, without starting a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				resp, err := e.Serve(ctx, args[0])
				if err != nil {
					return err
				}
				body, err := resp.Body.MarshalJSON()
				if err != nil {
					return err
				}
				if !viper.GetBool("json") {
					fmt.Printf("HTTP %d\n", resp.Status)
				}
				fmt.Println(string(body))
				return nil
			})
		},
	}
}

func previewCmd() *cobra.Command {
	var text, file string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Materialize a template without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if text == "" {
				return fmt.Errorf("--template or --file required")
			}
			e, err := engine.New(nil, nil)
			if err != nil {
				return err
			}
			body, err := e.Preview(text).MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "template", "", "JSON template text")
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON template")
	return cmd
}

func printMock(m domain.MockDefinition) error {
	if viper.GetBool("json") {
		return printJSON(m)
	}
	tw := newTable()
	tw.AppendRows([]table.Row{
		{"ID", m.ID},
		{"Mock ID", m.MockID},
		{"Endpoint", m.Endpoint},
		{"Method", m.Method},
		{"Status", m.StatusCode},
		{"Delay (ms)", m.DelayMs},
		{"Chaos", chaosLabel(m)},
		{"Created", m.CreatedAt},
		{"Updated", m.UpdatedAt},
	})
	tw.Render()
	fmt.Println(m.Template)
	return nil
}

func printMockTable(items []domain.MockDefinition) {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Mock ID", "Method", "Endpoint", "Status", "Delay", "Chaos"})
	for _, m := range items {
		tw.AppendRow(table.Row{m.ID, m.MockID, m.Method, m.Endpoint, m.StatusCode, m.DelayMs, chaosLabel(m)})
	}
	tw.Render()
}

func chaosLabel(m domain.MockDefinition) string {
	if !m.ChaosEnabled {
		return "off"
	}
	return fmt.Sprintf("%d%%", m.ChaosLevel)
}
