package cmd

import (
	"fmt"
	"log"
	"os"

	"MuseFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musefm",
	Short: "MuseFM is a music content backend.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting MuseFM server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
