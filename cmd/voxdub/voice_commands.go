package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voxdub/internal/config"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload voicesPayload
			if err := ctx.client().getJSON(cmd.Context(), "/api/voices", &payload); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(payload.Standard)+len(payload.Cloned))
			for _, name := range payload.Standard {
				rows = append(rows, []string{name, "standard", "", ""})
			}
			for _, voice := range payload.Cloned {
				rows = append(rows, []string{voice.VoiceID, "cloned", voice.Name, voice.Description})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Voice", "Type", "Name", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newVoiceCommand(ctx *commandContext) *cobra.Command {
	voiceCmd := &cobra.Command{
		Use:   "voice",
		Short: "Manage cloned voices",
	}
	voiceCmd.AddCommand(newVoiceCloneCommand(ctx))
	voiceCmd.AddCommand(newVoiceRemoveCommand(ctx))
	return voiceCmd
}

func newVoiceCloneCommand(ctx *commandContext) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "clone <audio-sample>",
		Short: "Clone a voice from an audio sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samplePath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(samplePath); err != nil {
				return fmt.Errorf("inspect sample %q: %w", args[0], err)
			}
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			resp, err := ctx.client().postMultipart(cmd.Context(), "/api/voices/clone",
				map[string]string{"audio": samplePath},
				map[string]string{
					"voice_name":        name,
					"voice_description": description,
				})
			if err != nil {
				return err
			}
			var payload struct {
				VoiceID string `json:"voice_id"`
				Name    string `json:"name"`
			}
			if err := decodeBody(resp, &payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cloned voice %q registered as %s\n", payload.Name, payload.VoiceID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the cloned voice (required)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	return cmd
}

func newVoiceRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <voice-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a cloned voice from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().delete(cmd.Context(), "/api/voices/"+args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed voice %s\n", args[0])
			return nil
		},
	}
}
