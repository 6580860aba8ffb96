package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dm/painel/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(c.out, "painel version %s\n", build.Version)
		},
	}
}
