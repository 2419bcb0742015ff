package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/core/so"
	"github.com/dual-finance/soengine/internal/identity"
)

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Inspect configured sales",
}

var saleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every live sale",
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
		if len(sales) == 0 {
			fmt.Println("no sales")
			return nil
		}
		for _, sale := range sales {
			fmt.Printf("%s  strikes=%d available=%d expires=%s\n",
				sale.ID, len(sale.Strikes), sale.OptionsAvailable,
				time.Unix(int64(sale.OptionExpiration), 0).UTC().Format(time.RFC3339))
		}
		return nil
	},
}

var saleShowCmd = &cobra.Command{
	Use:   "show <name> <period> <base-asset-hex>",
	Short: "Show one sale in full",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSaleID(args)
		if err != nil {
			return err
		}

		env, err := openEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.close()

		sale, err := env.engine.Sale(id)
		if err != nil {
			return err
		}

		fmt.Printf("sale          %s\n", sale.ID)
		fmt.Printf("authority     %s\n", sale.Authority)
		if !sale.IssueAuthority.IsZero() {
			fmt.Printf("issuer        %s\n", sale.IssueAuthority)
		}
		fmt.Printf("quote asset   %s\n", sale.QuoteAsset)
		fmt.Printf("lot size      %d\n", sale.LotSize)
		fmt.Printf("available     %d\n", sale.OptionsAvailable)
		fmt.Printf("withdrawn     %d\n", sale.Withdrawn)
		fmt.Printf("subscription  %s\n", time.Unix(int64(sale.SubscriptionPeriodEnd), 0).UTC().Format(time.RFC3339))
		fmt.Printf("expiration    %s\n", time.Unix(int64(sale.OptionExpiration), 0).UTC().Format(time.RFC3339))
		fmt.Printf("reversible    %v\n", sale.Reversible)
		for _, strike := range sale.Strikes {
			supply, err := env.engine.Supply(keylet.OptionAsset(id.Keylet().Key, strike))
			if err != nil {
				return err
			}
			fmt.Printf("strike %-12d %s  outstanding=%d\n", strike, sale.TokenName(strike), supply)
		}
		return nil
	},
}

func parseSaleID(args []string) (so.SaleID, error) {
	period, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return so.SaleID{}, fmt.Errorf("invalid period %q: %w", args[1], err)
	}
	base, err := identity.ParseAssetID(args[2])
	if err != nil {
		return so.SaleID{}, err
	}
	return so.SaleID{Name: args[0], Period: period, Base: base}, nil
}

func init() {
	saleCmd.AddCommand(saleListCmd)
	saleCmd.AddCommand(saleShowCmd)
	rootCmd.AddCommand(saleCmd)
}
