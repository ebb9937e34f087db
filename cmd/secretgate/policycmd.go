package secretgate

import (
	"fmt"
	"os"

	"github.com/secretgate/secretgate/internal/policy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	pol := &cobra.Command{Use: "policy", Short: "Manage the gate policy file"}
	rootCmd.AddCommand(pol)

	var out string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a strict starter policy",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				}
			}
			b, err := yaml.Marshal(policy.Default())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0644); err != nil {
				return err
			}
			fmt.Println("Wrote", out)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&out, "out", "o", ".secretgate.yml", "destination file")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	pol.AddCommand(initCmd)

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a policy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := policy.Load(args[0]); err != nil {
				return err
			}
			fmt.Println("Policy OK:", args[0])
			return nil
		},
	}
	pol.AddCommand(checkCmd)
}
