package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nexadigital/nexa-api/internal/services"
	"github.com/spf13/cobra"
)

var (
	pageSize  int
	pageDelay time.Duration
)

// countCmd walks the directory the same way GET /api/count does
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count users in the identity directory",
	Long: `Page through every user in the identity directory and print totals.

The walk pauses between pages to stay under the provider's quota, so large
directories take a while. Interrupting the command aborts the walk.`,
	RunE: runCount,
}

// avatarsCmd prints what GET /api/avatars would return
var avatarsCmd = &cobra.Command{
	Use:   "avatars",
	Short: "Show the newest users with their avatars",
	RunE:  runAvatars,
}

func init() {
	countCmd.Flags().IntVar(&pageSize, "page-size", 1000, "Users per page (max 1000)")
	countCmd.Flags().DurationVar(&pageDelay, "page-delay", 100*time.Millisecond, "Pause between pages")
}

func directoryService(ctx context.Context) (*services.DirectoryService, error) {
	lister, err := newLister(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewDirectoryService(lister, nil, services.DirectoryOptions{
		PageSize:  pageSize,
		PageDelay: pageDelay,
	}), nil
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := directoryService(ctx)
	if err != nil {
		return err
	}

	stats, err := svc.CountUsers(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, stats)
	}
	fmt.Fprintln(out, services.Summary(stats))
	return nil
}

func runAvatars(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := directoryService(ctx)
	if err != nil {
		return err
	}

	avatars, err := svc.Avatars(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, avatars)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tNAME\tPHOTO")
	for _, a := range avatars {
		photo := "-"
		if a.PhotoURL != nil {
			photo = *a.PhotoURL
		}
		name := a.DisplayName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.UID, name, photo)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
