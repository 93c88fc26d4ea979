package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "heritour",
	Short: "Offline cache for heritage tour assets",
	Long: `
heritour downloads the media assets of heritage tours (3D models, markers,
audio, video, images) into a local cache so the tour app can run offline.
Cached tours expire after 24 hours and can be refreshed or cleared at any
time.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
