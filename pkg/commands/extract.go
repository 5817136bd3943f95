package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var ExtractCmd = &cobra.Command{
	Use:     "extract <archive.varc> [output_dir]",
	Aliases: []string{"x", "unpack"},
	Short:   "Extract files from archive",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	archivePath := args[0]
	outputDir := "."
	if len(args) > 1 {
		outputDir = args[1]
	}

	a := varc.New()
	if err := openForWrite(a, archivePath); err != nil {
		return err
	}
	defer a.Close()

	a.SetProgressCallback(printProgress)

	result, err := a.ExtractAll(outputDir, opts.Password, varc.ExtractOptions{
		Overwrite:          opts.Overwrite,
		PreserveTimestamps: true,
	})
	if err != nil {
		return err
	}
	if !result.Success {
		fmt.Fprintln(os.Stderr, "Warning: some files may not have been extracted")
	}

	if !opts.Quiet {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Printf("Extracted: %d files\n", result.FilesProcessed)
	fmt.Printf("Output: %s\n", outputDir)
	return nil
}
