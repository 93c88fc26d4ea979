package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cmdStatus = &cobra.Command{
	Use:   "status [--tour ID]",
	Short: "Show which tours are cached and whether they are still fresh",
	Long: `
The "status" command reports the cache state of one tour, or lists all cached
tours when no tour id is given. A tour counts as fresh while its download is
younger than the expiry window.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(statusOptions.TourID)
	},
}

// StatusOptions bundles all options for the status command.
type StatusOptions struct {
	TourID int
}

var statusOptions StatusOptions

func init() {
	cmdRoot.AddCommand(cmdStatus)

	f := cmdStatus.Flags()
	f.IntVar(&statusOptions.TourID, "tour", 0, "tour id to check (0: list all)")
}

func runStatus(id int) error {
	m, err := openManager(globalOptions, false)
	if err != nil {
		return err
	}

	if id != 0 {
		ct, err := m.CachedTour(id)
		if err != nil {
			return err
		}
		if ct == nil {
			fmt.Printf("tour %d: not cached\n", id)
			return nil
		}

		state := "stale"
		if m.IsCached(id) {
			state = "fresh"
		}
		fmt.Printf("tour %d: %s, %q, %d assets, downloaded %s\n",
			id, state, ct.Tour.Title, len(ct.LocalAssets),
			ct.DownloadedAt.Format("2006-01-02 15:04:05"))
		return nil
	}

	ids, err := m.CachedTourIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no cached tours")
		return nil
	}
	for _, tid := range ids {
		state := "stale"
		if m.IsCached(tid) {
			state = "fresh"
		}
		fmt.Printf("tour %d: %s\n", tid, state)
	}
	return nil
}
