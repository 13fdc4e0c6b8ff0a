package cmd

import (
	"fmt"

	"github.com/kamusis/zearch/internal/drive"
	"github.com/spf13/cobra"
)

var flagIndexDrive string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the drive index",
	Long: `Walk a whole drive and overwrite the single drive index with every
file path found. Unreadable folders are skipped.

Example:
  zearch index
  zearch index --drive /mnt/data`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&flagIndexDrive, "drive", "d", drive.DefaultRoot(), "Drive root to index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Building index for %s (this may take a while)…\n", flagIndexDrive)
	meta, err := a.drive.Build(cmd.Context(), flagIndexDrive)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Index built: %d files recorded.\n", meta.Files)
	return nil
}
