package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var ListCmd = &cobra.Command{
	Use:     "list <archive.varc>",
	Aliases: []string{"l"},
	Short:   "List archive contents",
	Args:    cobra.ExactArgs(1),
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a := varc.New()
	if err := openForWrite(a, args[0]); err != nil {
		return err
	}
	defer a.Close()

	listOpts := varc.DefaultListOptions()
	listOpts.ShowChecksums = opts.Checksums
	if opts.Raw {
		listOpts.ShowChecksums = false
		listOpts.ShowTimestamps = false
		listOpts.HumanReadable = false
	}

	fmt.Print(a.List(listOpts))
	return nil
}
