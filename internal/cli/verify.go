package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit the accounting invariants of every sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		sales, err := env.engine.Sales()
		if err != nil {
			return err
		}

		// Sales are independent, so the audits can run in parallel.
		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(8)
		for _, sale := range sales {
			id := sale.ID
			g.Go(func() error {
				return env.engine.VerifySale(id)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		fmt.Printf("%d sales verified\n", len(sales))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
