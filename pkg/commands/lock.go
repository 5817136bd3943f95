package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var LockCmd = &cobra.Command{
	Use:   "lock <archive.varc>",
	Short: "Encrypt/lock archive with password",
	Args:  cobra.ExactArgs(1),
	RunE:  runLock,
}

func runLock(cmd *cobra.Command, args []string) error {
	password := opts.Password
	if password == "" {
		var err error
		if password, err = promptPassword(true); err != nil {
			return err
		}
	}

	a := varc.New()
	if err := a.Open(args[0], ""); err != nil {
		return err
	}
	defer a.Close()

	if err := a.Lock(password); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Println("Archive locked successfully")
	return nil
}
