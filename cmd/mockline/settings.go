package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mockline/internal/domain"
	"mockline/internal/engine"
	"mockline/internal/engine/auth"
	"mockline/internal/repo"
)

func settingsCmd() *cobra.Command {
	s := &cobra.Command{Use: "settings", Short: "Manage your settings"}
	s.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				st, err := e.LoadSettings(ctx, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printSettings(st)
			})
		},
	})
	s.AddCommand(settingsSetCmd())
	return s
}

func settingsSetCmd() *cobra.Command {
	var baseURL string
	var chaos bool
	var level int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings; only the given flags change",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in engine.SettingsInput
			if cmd.Flags().Changed("api-base-url") {
				in.APIBaseURL = &baseURL
			}
			if cmd.Flags().Changed("chaos") {
				in.EnableChaosMode = &chaos
			}
			if cmd.Flags().Changed("chaos-level") {
				in.ChaosLevel = &level
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				st, err := e.SaveSettings(ctx, viper.GetString("actor-id"), in)
				if err != nil {
					return err
				}
				return printSettings(st)
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "api-base-url", "", "base URL shown to API consumers")
	cmd.Flags().BoolVar(&chaos, "chaos", false, "enable chaos for new mocks")
	cmd.Flags().IntVar(&level, "chaos-level", engine.DefaultChaosLevel, "default chaos level for new mocks")
	return cmd
}

func printSettings(st domain.Settings) error {
	if viper.GetBool("json") {
		return printJSON(st)
	}
	tw := newTable()
	tw.AppendRows([]table.Row{
		{"Owner", st.OwnerID},
		{"API base URL", st.APIBaseURL},
		{"Chaos for new mocks", st.EnableChaosMode},
		{"Chaos level", st.ChaosLevel},
		{"Updated", st.UpdatedAt},
	})
	tw.Render()
	return nil
}

func apikeyCmd() *cobra.Command {
	k := &cobra.Command{Use: "apikey", Short: "Manage API keys"}
	k.AddCommand(apikeyCreateCmd())
	k.AddCommand(apikeyListCmd())
	k.AddCommand(apikeyRevokeCmd())
	return k
}

func apikeyCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key for the current actor; the secret is shown once",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor := viper.GetString("actor-id")
			if err := auth.RequireActor(actor); err != nil {
				return err
			}
			secret, err := auth.NewAPIKeySecret()
			if err != nil {
				return err
			}
			key := domain.APIKey{
				ID:        uuid.NewString(),
				ActorID:   actor,
				Name:      name,
				KeyHash:   repo.HashAPIKey(secret),
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				if err := r.InsertAPIKey(ctx, nil, key); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]string{"id": key.ID, "key": secret})
				}
				fmt.Printf("Created API key %s\n%s\nSend it as the X-Api-Key header. It will not be shown again.\n", key.ID, secret)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "label for the key")
	return cmd
}

func apikeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current actor's API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				keys, err := r.ListAPIKeys(ctx, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(keys)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Name", "Created"})
				for _, k := range keys {
					tw.AppendRow(table.Row{k.ID, k.Name, k.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func apikeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				if err := r.DeleteAPIKey(ctx, args[0], viper.GetString("actor-id")); err != nil {
					return err
				}
				fmt.Printf("Revoked %s\n", args[0])
				return nil
			})
		},
	}
}
