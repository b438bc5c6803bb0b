package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported dubbing languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload languagesPayload
			if err := ctx.client().getJSON(cmd.Context(), "/api/languages", &payload); err != nil {
				return err
			}
			rows := make([][]string, 0, len(payload.Languages))
			for _, lang := range payload.Languages {
				rows = append(rows, []string{lang.Code, lang.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload statusPayload
			if err := ctx.client().getJSON(cmd.Context(), "/api/status", &payload); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			titler := cases.Title(language.Und)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			runningKind := statusError
			runningMsg := "not running"
			if payload.Running {
				runningKind = statusOK
				runningMsg = fmt.Sprintf("pid %d, up %s", payload.PID, (time.Duration(payload.UptimeSeconds) * time.Second).String())
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", runningKind, runningMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Voice cloning", boolKind(payload.VoiceCloning), yesNo(payload.VoiceCloning), colorize))
			fmt.Fprintln(out, renderStatusLine("Lip sync", boolKind(payload.LipSyncEnabled), yesNo(payload.LipSyncEnabled), colorize))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, dep := range payload.Dependencies {
				kind := statusOK
				message := dep.Command
				if !dep.Available {
					kind = statusError
					message = dep.Detail
				}
				fmt.Fprintln(out, renderStatusLine(dep.Name, kind, message, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Jobs", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := make([]string, 0, len(payload.Jobs))
			for status := range payload.Jobs {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				count := payload.Jobs[status]
				kind := statusInfo
				if status == "failed" && count > 0 {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(titler.String(status), kind, fmt.Sprintf("%d", count), colorize))
			}
			return nil
		},
	}
}

func boolKind(value bool) statusKind {
	if value {
		return statusOK
	}
	return statusInfo
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
