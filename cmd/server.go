package cmd

import (
	"MuseFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MuseFM HTTP server",
	Long:  `Start the MuseFM HTTP server, exposing the auth, audio, music and favorites API.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
