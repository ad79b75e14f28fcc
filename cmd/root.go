package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var bookOpts bookOptions

	root := &cobra.Command{
		Use:   "deskbooker",
		Short: "Books a fixed desk ahead of time and checks in to it on the day",
		// Running without a subcommand books; check-in is explicit.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBook(cmd, bookOpts)
		},
	}
	addBookFlags(root, &bookOpts)

	root.PersistentFlags().String("config", "", "path to config file (default deskbooker.toml, or $DESKBOOKER_CONFIG)")
	root.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newCheckinCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
