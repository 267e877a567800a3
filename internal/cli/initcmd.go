package cli

import (
	"github.com/spf13/cobra"

	"prospector/internal/store"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and seed the default feeds",
	Long: `Init creates the SQLite database file, applies the schema and seeds
the default feed list. Running it against an existing database is
safe; nothing is overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			cmd.Printf("Database ready: %s\n", st.Path())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
