package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyline93/heritour/internal/cache"
)

var cmdDownload = &cobra.Command{
	Use:   "download --tour ID",
	Short: "Download a tour's assets into the local cache",
	Long: `
The "download" command fetches the tour detail record from the API, downloads
every referenced asset and stores the URL-to-file mapping for offline use.

EXIT STATUS
===========

Exit status is 0 if the tour was cached, even when single assets could not be
downloaded (those fall back to their remote URLs).
Exit status is 1 if the tour record itself could not be fetched.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDownload(cmd.Context(), downloadOptions.TourID)
	},
}

// DownloadOptions bundles all options for the download command.
type DownloadOptions struct {
	TourID int
}

var downloadOptions DownloadOptions

func init() {
	cmdRoot.AddCommand(cmdDownload)

	f := cmdDownload.Flags()
	f.IntVar(&downloadOptions.TourID, "tour", 0, "tour id to download")
	_ = cmdDownload.MarkFlagRequired("tour")
}

func runDownload(ctx context.Context, id int) error {
	m, err := openManager(globalOptions, true)
	if err != nil {
		return err
	}

	ct, err := m.DownloadTour(ctx, id, printProgress)
	if err != nil {
		return err
	}

	total := len(ct.Tour.AssetURLs())
	missed := total - len(ct.LocalAssets)
	if missed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d assets not cached, remote URLs will be used\n", missed, total)
	}

	fmt.Printf("tour %d cached: %q, %d assets\n", id, ct.Tour.Title, len(ct.LocalAssets))
	return nil
}

func printProgress(p cache.Progress) {
	fmt.Printf("[%3d%%] %d/%d %s\n", p.Percentage, p.Downloaded, p.Total, p.CurrentFile)
}
