package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var RemoveCmd = &cobra.Command{
	Use:     "remove <archive.varc> <patterns...>",
	Aliases: []string{"rm"},
	Short:   "Remove files from archive",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	archivePath, patterns := args[0], args[1:]

	a := varc.New()
	if err := openForWrite(a, archivePath); err != nil {
		return err
	}
	defer a.Close()

	removed := 0
	for _, pattern := range patterns {
		removed += a.RemovePattern(pattern)
	}

	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Removed %d entries from archive\n", removed)
	return nil
}
