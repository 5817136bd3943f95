package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/compress"
	"github.com/lotusos/varc/pkg/varc"
)

var CreateCmd = &cobra.Command{
	Use:     "create <archive.varc> <files...>",
	Aliases: []string{"c", "pack"},
	Short:   "Create a new archive",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	archivePath, inputs := args[0], args[1:]

	password := opts.Password
	if opts.Encrypt && password == "" {
		var err error
		if password, err = promptPassword(true); err != nil {
			return err
		}
	}

	a := varc.New()
	if err := a.Create(archivePath); err != nil {
		return err
	}
	defer a.Close()

	a.SetProgressCallback(printProgress)

	createOpts := varc.DefaultCreateOptions()
	createOpts.Compress = !opts.NoCompress
	createOpts.CompressionLevel = opts.CompressLevel
	createOpts.Encrypt = opts.Encrypt
	createOpts.Password = password

	result, err := a.AddFiles(inputs, createOpts)
	if err != nil {
		return err
	}

	if err := a.Save(); err != nil {
		return err
	}

	if !opts.Quiet {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Printf("Created: %s\n", archivePath)
	fmt.Printf("Files: %d\n", result.FilesProcessed)
	fmt.Printf("Size: %.2f KB\n", float64(result.BytesProcessed)/1024.0)
	if !opts.NoCompress {
		fmt.Printf("Compression: %s (level %d)\n", compress.LevelName(opts.CompressLevel), opts.CompressLevel)
	}
	if opts.Encrypt {
		fmt.Println("Encryption: AES-256-CBC")
	}
	if result.Message != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", result.Message)
	}
	return nil
}

// openForWrite opens an archive applying the shared password flag, prompting
// only when the archive turns out to be encrypted.
func openForWrite(a *varc.Archive, path string) error {
	err := a.Open(path, opts.Password)
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrPasswordRequired) && opts.Password == "" {
		password, perr := promptPassword(false)
		if perr != nil {
			return perr
		}
		opts.Password = password
		return a.Open(path, password)
	}
	return err
}
