package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.27"

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf(`VaultArchive Version %s
===========================

Features:
  - AES-256-CBC encryption
  - DEFLATE compression (gzip wrapper)
  - SHA-256 integrity verification
  - Multi-file archives
  - Local and S3 archive storage
`, version)
	},
}
