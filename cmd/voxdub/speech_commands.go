package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voxdub/internal/config"
)

func newTTSCommand(ctx *commandContext) *cobra.Command {
	var (
		voice       string
		voiceType   string
		translateTo string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "tts <text>",
		Short: "Render text to speech",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(args[0])
			if text == "" {
				return fmt.Errorf("text is required")
			}

			resp, err := ctx.client().postJSONRaw(cmd.Context(), "/api/tts", map[string]string{
				"text":         text,
				"voice":        voice,
				"voice_type":   voiceType,
				"translate_to": translateTo,
			})
			if err != nil {
				return err
			}

			dest := strings.TrimSpace(output)
			if dest == "" {
				dest = "speech.mp3"
			}
			if err := saveResponseBody(resp, dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "Voice name or cloned voice id")
	cmd.Flags().StringVar(&voiceType, "voice-type", "standard", "Voice type: standard or cloned")
	cmd.Flags().StringVar(&translateTo, "translate-to", "", "Translate the text before synthesis")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path for the audio")
	return cmd
}

func newSTTCommand(ctx *commandContext) *cobra.Command {
	var (
		language    string
		translateTo string
	)

	cmd := &cobra.Command{
		Use:   "stt <audio-or-video>",
		Short: "Transcribe an audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("inspect file %q: %w", args[0], err)
			}

			resp, err := ctx.client().postMultipart(cmd.Context(), "/api/stt",
				map[string]string{"file": path},
				map[string]string{
					"language":     language,
					"translate_to": translateTo,
				})
			if err != nil {
				return err
			}
			var payload struct {
				Text           string `json:"text"`
				Language       string `json:"language"`
				TranslatedText string `json:"translated_text"`
			}
			if err := decodeBody(resp, &payload); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if payload.Language != "" {
				fmt.Fprintf(out, "Language: %s\n", payload.Language)
			}
			fmt.Fprintln(out, payload.Text)
			if payload.TranslatedText != "" {
				fmt.Fprintf(out, "\nTranslation:\n%s\n", payload.TranslatedText)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Source language hint")
	cmd.Flags().StringVar(&translateTo, "translate-to", "", "Also translate the transcription")
	return cmd
}
