package main

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdClear = &cobra.Command{
	Use:   "clear [--tour ID | --all]",
	Short: "Remove cached tour data",
	Long: `
The "clear" command removes a single tour's cache entry and asset files, or
wipes the whole cache with --all. Removal is best-effort: partial failures
are logged and the cache stays usable.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClear(clearOptions.TourID, clearOptions.All)
	},
}

// ClearOptions bundles all options for the clear command.
type ClearOptions struct {
	TourID int
	All    bool
}

var clearOptions ClearOptions

func init() {
	cmdRoot.AddCommand(cmdClear)

	f := cmdClear.Flags()
	f.IntVar(&clearOptions.TourID, "tour", 0, "tour id to clear")
	f.BoolVar(&clearOptions.All, "all", false, "clear every cached tour")
	cmdClear.MarkFlagsMutuallyExclusive("tour", "all")
}

func runClear(id int, all bool) error {
	if id == 0 && !all {
		return errors.New("either --tour or --all is required")
	}

	m, err := openManager(globalOptions, false)
	if err != nil {
		return err
	}

	if all {
		if err := m.ClearAll(); err != nil {
			log.Warnf("cache not fully cleared: %v", err)
		}
		fmt.Println("cache cleared")
		return nil
	}

	if err := m.Clear(id); err != nil {
		log.Warnf("cache for tour %d not fully cleared: %v", id, err)
	}
	fmt.Printf("cache for tour %d cleared\n", id)
	return nil
}
