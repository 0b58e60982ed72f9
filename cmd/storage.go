package cmd

import (
	"fmt"
	"log"

	"MuseFM/config"
	"MuseFM/storage"

	"github.com/spf13/cobra"
)

var (
	storagePrefix string
	storageStats  bool
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the object storage bucket",
	Long:  `List uploaded audio and license objects in the storage bucket. Useful for auditing orphaned objects left behind by failed uploads.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Storage endpoint: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}

		objects, stats, err := storage.ListBucketObjects(cfg.MinioBucket, storagePrefix)
		if err != nil {
			log.Fatalf("Failed to list objects: %v", err)
		}

		if storageStats {
			fmt.Printf("\nObjects: %d\nTotal size: %s\n", stats.TotalObjects, storage.FormatSize(stats.TotalSize))
			return
		}

		if len(objects) == 0 {
			fmt.Println("\nNo objects found.")
			return
		}
		fmt.Println()
		for _, obj := range objects {
			fmt.Printf("%-60s %10s  %s\n", obj.Key, storage.FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("\n%d objects, %s total\n", stats.TotalObjects, storage.FormatSize(stats.TotalSize))
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)

	storageCmd.Flags().StringVarP(&storagePrefix, "prefix", "p", "", "filter objects by key prefix (e.g. \"audio/\" or \"licenses/\")")
	storageCmd.Flags().BoolVarP(&storageStats, "stats", "s", false, "print bucket totals only")

	storageCmd.Example = `  # List every object in the bucket
  musefm storage

  # List only license files
  musefm storage -p "licenses/"

  # Bucket totals
  musefm storage -s`
}
