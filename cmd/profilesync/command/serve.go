package command

import (
	"github.com/spf13/cobra"

	"github.com/hlra-health/profilesync/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long:  "The serve command starts the local HTTP service used by the UI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The service logs at the level of the LOG_LEVEL environment variable
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) { api.MainLoop() },
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
