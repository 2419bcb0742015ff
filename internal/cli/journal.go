package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent journaled operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		if env.journal == nil {
			return fmt.Errorf("no journal configured (journal_driver is %q)", env.cfg.JournalDriver)
		}
		entries, err := env.journal.List(journalLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %-20s %-40s actor=%s amount=%d\n",
				e.At.Format(time.RFC3339), e.Op, e.Sale, e.Actor, e.Amount)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 50, "maximum entries to show")
	rootCmd.AddCommand(journalCmd)
}
