package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voxdub/internal/config"
	"voxdub/internal/jobs"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var (
		targetLanguage string
		sourceLanguage string
		voice          string
		voiceType      string
		speedFactor    float64
		wait           bool
		output         string
	)

	cmd := &cobra.Command{
		Use:   "dub <video>",
		Short: "Submit a video for dubbing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(videoPath); err != nil {
				return fmt.Errorf("inspect video %q: %w", args[0], err)
			}
			if strings.TrimSpace(targetLanguage) == "" {
				return fmt.Errorf("--to is required")
			}

			client := ctx.client()
			resp, err := client.postMultipart(cmd.Context(), "/api/dub",
				map[string]string{"video": videoPath},
				map[string]string{
					"target_language": targetLanguage,
					"source_language": sourceLanguage,
					"voice":           voice,
					"voice_type":      voiceType,
					"speed_factor":    strconv.FormatFloat(speedFactor, 'g', -1, 64),
				})
			if err != nil {
				return err
			}
			var job jobPayload
			if err := decodeBody(resp, &job); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s accepted (%s -> %s)\n", job.ID, job.SourceName, job.TargetLanguage)
			if !wait {
				fmt.Fprintf(out, "Track progress with `voxdub show %s`\n", job.ID)
				return nil
			}

			final, err := waitForJob(cmd.Context(), client, job.ID, out)
			if err != nil {
				return err
			}
			if final.Status == string(jobs.StatusFailed) {
				return fmt.Errorf("dubbing failed at %s: %s", final.Stage, final.Error)
			}

			dest := strings.TrimSpace(output)
			if dest == "" {
				dest = "dubbed_" + final.ID + ".mp4"
			}
			if err := downloadJobVideo(cmd.Context(), client, final.ID, dest); err != nil {
				return err
			}
			fmt.Fprintf(out, "Dubbed video saved to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetLanguage, "to", "", "Target language code (required)")
	cmd.Flags().StringVar(&sourceLanguage, "from", "", "Source language hint")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name or cloned voice id")
	cmd.Flags().StringVar(&voiceType, "voice-type", "standard", "Voice type: standard or cloned")
	cmd.Flags().Float64Var(&speedFactor, "speed", 1.0, "Speech speed factor")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for completion and download the result")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path for the dubbed video (with --wait)")
	return cmd
}

// waitForJob polls until the job reaches a terminal status, echoing stage
// transitions as they happen.
func waitForJob(ctx context.Context, client *apiClient, id string, out io.Writer) (*jobPayload, error) {
	lastStatus := ""
	for {
		var job jobPayload
		if err := client.getJSON(ctx, "/api/jobs/"+id, &job); err != nil {
			return nil, err
		}
		if job.Status != lastStatus {
			fmt.Fprintf(out, "  %s\n", job.Status)
			lastStatus = job.Status
		}
		if job.Status == string(jobs.StatusCompleted) || job.Status == string(jobs.StatusFailed) {
			return &job, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func downloadJobVideo(ctx context.Context, client *apiClient, id, dest string) error {
	req, err := newGetRequest(ctx, client, "/api/jobs/"+id+"/video")
	if err != nil {
		return err
	}
	resp, err := client.do(req)
	if err != nil {
		return err
	}
	return saveResponseBody(resp, dest)
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List dubbing jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload struct {
				Jobs []jobPayload `json:"jobs"`
			}
			if err := ctx.client().getJSON(cmd.Context(), "/api/jobs", &payload); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(payload.Jobs) == 0 {
				fmt.Fprintln(out, "No jobs")
				return nil
			}

			rows := make([][]string, 0, len(payload.Jobs))
			for _, job := range payload.Jobs {
				rows = append(rows, []string{
					job.ID,
					job.Status,
					job.SourceName,
					job.TargetLanguage,
					job.Voice,
					formatSpeed(job.SpeedFactor),
					job.CreatedAt,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Source", "To", "Voice", "Speed", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one dubbing job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var job jobPayload
			if err := ctx.client().getJSON(cmd.Context(), "/api/jobs/"+args[0], &job); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:            %s\n", job.ID)
			fmt.Fprintf(out, "Status:         %s\n", job.Status)
			if job.Stage != "" {
				fmt.Fprintf(out, "Stage:          %s\n", job.Stage)
			}
			if job.Error != "" {
				fmt.Fprintf(out, "Error:          %s\n", job.Error)
			}
			fmt.Fprintf(out, "Source:         %s\n", job.SourceName)
			fmt.Fprintf(out, "Target:         %s\n", job.TargetLanguage)
			if job.SourceLanguage != "" {
				fmt.Fprintf(out, "Source hint:    %s\n", job.SourceLanguage)
			}
			if job.DetectedLanguage != "" {
				fmt.Fprintf(out, "Detected:       %s\n", job.DetectedLanguage)
			}
			fmt.Fprintf(out, "Voice:          %s (%s)\n", job.Voice, job.VoiceKind)
			fmt.Fprintf(out, "Speed:          %s\n", formatSpeed(job.SpeedFactor))
			if job.OriginalDuration > 0 {
				fmt.Fprintf(out, "Duration:       %.1fs", job.OriginalDuration)
				if job.FinalDuration > 0 {
					fmt.Fprintf(out, " -> %.1fs", job.FinalDuration)
				}
				fmt.Fprintln(out)
			}
			if job.OriginalText != "" {
				fmt.Fprintf(out, "\nTranscript:\n%s\n", truncateText(job.OriginalText, 500))
			}
			if job.TranslatedText != "" && job.TranslatedText != job.OriginalText {
				fmt.Fprintf(out, "\nTranslation:\n%s\n", truncateText(job.TranslatedText, 500))
			}
			if job.VideoReady {
				fmt.Fprintf(out, "\nDownload with `voxdub download %s`\n", job.ID)
			}
			return nil
		},
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download a completed dubbed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := strings.TrimSpace(output)
			if dest == "" {
				dest = "dubbed_" + args[0] + ".mp4"
			}
			if err := downloadJobVideo(cmd.Context(), ctx.client(), args[0], dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path")
	return cmd
}

func formatSpeed(factor float64) string {
	if factor == 0 {
		factor = 1.0
	}
	return strconv.FormatFloat(factor, 'g', -1, 64) + "x"
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
