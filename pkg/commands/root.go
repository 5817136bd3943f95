// Package commands wires the varc CLI verbs to the archive engine.
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrVerificationFailed distinguishes a failed verify (exit code 2) from
// usage and I/O errors (exit code 1).
var ErrVerificationFailed = errors.New("verification failed")

// globalOpts carries the flags shared across verbs.
type globalOpts struct {
	Password      string
	Encrypt       bool
	NoCompress    bool
	CompressLevel int
	Overwrite     bool
	Quiet         bool
	Raw           bool
	Checksums     bool
}

var opts = &globalOpts{CompressLevel: 6}

var RootCmd = &cobra.Command{
	Use:           "varc",
	Short:         "VaultArchive (VARC) - Secure Archive Tool",
	Long:          "VaultArchive bundles files into a single .varc container with optional DEFLATE compression and AES-256-CBC encryption.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		if opts.Quiet {
			zerolog.SetGlobalLevel(zerolog.Disabled)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&opts.Password, "password", "p", "", "Password for encryption")
	pf.BoolVarP(&opts.Encrypt, "encrypt", "e", false, "Enable encryption for archive")
	pf.BoolVar(&opts.NoCompress, "no-compress", false, "Disable compression")
	pf.IntVar(&opts.CompressLevel, "compress-level", 6, "Compression level (0-9)")
	pf.BoolVarP(&opts.Overwrite, "overwrite", "o", false, "Overwrite existing files")
	pf.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVar(&opts.Raw, "raw", false, "Raw output (no formatting)")
	pf.BoolVar(&opts.Checksums, "checksums", false, "Show checksums in listings")

	RootCmd.Version = version
	RootCmd.Flags().BoolP("version", "v", false, "Show version")

	RootCmd.AddCommand(CreateCmd, ExtractCmd, ListCmd, VerifyCmd, AddCmd, RemoveCmd, LockCmd, UnlockCmd, VersionCmd)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		if errors.Is(err, ErrVerificationFailed) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// promptPassword reads a password from stdin, optionally confirming.
func promptPassword(confirm bool) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprint(os.Stderr, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	password = strings.TrimRight(password, "\r\n")

	if confirm {
		fmt.Fprint(os.Stderr, "Confirm password: ")
		again, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		if password != strings.TrimRight(again, "\r\n") {
			return "", errors.New("passwords do not match")
		}
	}
	return password, nil
}

// printProgress renders a 40-column progress bar on stderr.
func printProgress(current, total, bytesDone, bytesTotal uint64, currentPath string) {
	if opts.Quiet {
		return
	}

	const barWidth = 40
	progress := 0.0
	if total > 0 {
		progress = float64(current) / float64(total)
	}
	pos := int(barWidth * progress)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < pos:
			bar.WriteByte('=')
		case i == pos:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}

	name := currentPath
	if len(name) > 30 {
		name = "..." + name[len(name)-27:]
	}
	fmt.Fprintf(os.Stderr, "\r[%s] %3.0f%% %s", bar.String(), progress*100, name)
}
