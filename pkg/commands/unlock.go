package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var UnlockCmd = &cobra.Command{
	Use:   "unlock <archive.varc>",
	Short: "Decrypt/unlock archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlock,
}

func runUnlock(cmd *cobra.Command, args []string) error {
	password := opts.Password
	if password == "" {
		var err error
		if password, err = promptPassword(false); err != nil {
			return err
		}
	}

	a := varc.New()
	if err := a.Open(args[0], password); err != nil {
		return err
	}
	defer a.Close()

	if err := a.Unlock(password); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Println("Archive unlocked successfully")
	return nil
}
