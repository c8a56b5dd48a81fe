package commands

import (
	"fmt"

	"github.com/dkautomation/planrefresh/internal/constants"
	"github.com/spf13/cobra"
)

func installVersionCmd(app *App) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns the running version of " + constants.CmdName + " and exits",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return getVersion() },
	}
	app.cmd.AddCommand(cmd)
}

// getVersion returns the current version.
func getVersion() (err error) {
	fmt.Printf("%s\t%s\n", constants.CmdName, constants.Version)
	return nil
}
