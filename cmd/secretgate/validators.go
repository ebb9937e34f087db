package secretgate

import (
	"fmt"

	"github.com/secretgate/secretgate/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validators",
		Short: "List built-in validators",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := validate.DefaultRegistry()
			if err != nil {
				return err
			}
			for _, v := range reg.All() {
				network := "offline"
				if v.RequiresNetwork() {
					network = "network"
				}
				fmt.Printf("%-24s %6.1f qps  %s\n", v.Name(), v.RateLimitQPS(), network)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
