package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/kamusis/zearch/internal/drive"
	"github.com/kamusis/zearch/internal/index"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagInspectDrive bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [name]",
	Short: "Show details of a named index or of the drive index",
	Long: `Print the artifact path, number of recorded files, size, modification
time and content digest of index <name>, as YAML. With --drive, show the
drive index together with its metadata sidecar.

Example:
  zearch inspect docs
  zearch inspect --drive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&flagInspectDrive, "drive", false, "Inspect the drive index")
	rootCmd.AddCommand(inspectCmd)
}

// driveReport is the YAML shape of 'inspect --drive'.
type driveReport struct {
	index.Info `yaml:",inline"`
	Drive      string `yaml:"drive,omitempty"`
	Recorded   int    `yaml:"recorded_files,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	var report any
	switch {
	case flagInspectDrive:
		info, err := index.Stat(a.drive.ArtifactPath())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return drive.ErrNoIndex
			}
			return err
		}
		info.Name = "drive"
		r := driveReport{Info: *info}
		meta, err := a.drive.Metadata()
		switch {
		case err == nil:
			r.Drive, r.Recorded = meta.Drive, meta.Files
		case errors.Is(err, drive.ErrNoIndex):
			printWarn("", "metadata sidecar missing: "+a.drive.MetadataPath())
		default:
			printWarn("", err.Error())
		}
		report = r
	case len(args) == 1:
		info, err := a.store.Info(args[0])
		if err != nil {
			if errors.Is(err, index.ErrNotFound) {
				return a.notFound(args[0])
			}
			return err
		}
		report = info
	default:
		return fmt.Errorf("give an index name or --drive")
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(report)
}

// statusLine is used by doctor for a compact summary of an artifact.
func statusLine(info *index.Info) string {
	return fmt.Sprintf("%d file(s), %s, updated %s",
		info.Files, humanSize(info.Size), info.ModTime.Format("2006-01-02 15:04"))
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
