package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotusos/varc/pkg/varc"
)

var VerifyCmd = &cobra.Command{
	Use:     "verify <archive.varc>",
	Aliases: []string{"v"},
	Short:   "Verify archive integrity",
	Args:    cobra.ExactArgs(1),
	RunE:    runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	a := varc.New()
	if err := openForWrite(a, args[0]); err != nil {
		return err
	}
	defer a.Close()

	fmt.Println(a.VerificationReport(opts.Password))

	if err := a.Verify(opts.Password); err != nil {
		fmt.Println("Status: FAILED")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ErrVerificationFailed
	}

	fmt.Println("Status: VERIFIED")
	return nil
}
