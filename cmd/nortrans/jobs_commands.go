package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dexusno/NorTrans/internal/queue"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage queued translation jobs",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))

	return jobsCmd
}

func withStore(ctx *commandContext, fn func(*queue.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List translation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []queue.Status
			for _, value := range statusFilters {
				status, ok := queue.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q (expected one of %s)", value, statusNames())
				}
				statuses = append(statuses, status)
			}

			return withStore(ctx, func(store *queue.Store) error {
				jobs, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(jobs) == 0 {
					fmt.Fprintln(out, "No jobs found")
					return nil
				}

				if !stdoutIsTerminal() {
					for _, job := range jobs {
						fmt.Fprintf(out, "%s\t%s\t%s>%s\t%s\t%s\n",
							job.ID, job.FileName, job.SourceLang, job.TargetLang,
							job.Status, job.CreatedAt.Format(time.RFC3339))
					}
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						shortID(job.ID),
						job.FileName,
						job.SourceLang + ">" + job.TargetLang,
						string(job.Status),
						job.BackendUsed,
						job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILE", "PAIR", "STATUS", "BACKEND", "CREATED"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one translation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *queue.Store) error {
				job, err := findJob(cmd, store, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", job.ID)
				fmt.Fprintf(out, "File:        %s\n", job.FileName)
				fmt.Fprintf(out, "Pair:        %s>%s\n", job.SourceLang, job.TargetLang)
				fmt.Fprintf(out, "Mode:        %s\n", job.Mode)
				fmt.Fprintf(out, "Policy:      %s\n", job.Policy)
				fmt.Fprintf(out, "Status:      %s\n", job.Status)
				if job.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:       %s\n", job.ErrorMessage)
				}
				if job.ResultPath != "" {
					fmt.Fprintf(out, "Result:      %s\n", job.ResultPath)
				}
				if job.BackendUsed != "" {
					fmt.Fprintf(out, "Backend:     %s\n", job.BackendUsed)
				}
				fmt.Fprintf(out, "Segments:    %d translated, %d passed through of %d\n",
					job.Translated, job.Passthrough, job.Segments)
				fmt.Fprintf(out, "Created:     %s\n", job.CreatedAt.Local().Format(time.RFC3339))
				if job.FinishedAt != nil {
					fmt.Fprintf(out, "Finished:    %s\n", job.FinishedAt.Local().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove translation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *queue.Store) error {
				var (
					removed int64
					err     error
				)
				if completedOnly {
					removed, err = store.ClearCompleted(cmd.Context())
				} else {
					removed, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only remove completed and failed jobs")
	return cmd
}

// findJob resolves a job by full ID first, then by unique short prefix.
func findJob(cmd *cobra.Command, store *queue.Store, id string) (*queue.Job, error) {
	job, err := store.GetByID(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if job != nil {
		return job, nil
	}

	jobs, err := store.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	var match *queue.Job
	for _, candidate := range jobs {
		if strings.HasPrefix(candidate.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("job id %q is ambiguous", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("job %q not found", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusNames() string {
	statuses := queue.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
