package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var AddCmd = &cobra.Command{
	Use:     "add <archive.varc> <files...>",
	Aliases: []string{"a"},
	Short:   "Add files to existing archive",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	archivePath, inputs := args[0], args[1:]

	a := varc.New()
	if err := openForWrite(a, archivePath); err != nil {
		return err
	}
	defer a.Close()

	a.SetProgressCallback(printProgress)

	createOpts := varc.DefaultCreateOptions()
	createOpts.Compress = !opts.NoCompress
	createOpts.CompressionLevel = opts.CompressLevel
	createOpts.Encrypt = opts.Password != ""
	createOpts.Password = opts.Password

	result, err := a.AddFiles(inputs, createOpts)
	if err != nil {
		return err
	}

	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Added %d files to archive\n", result.FilesProcessed)
	return nil
}
