package secretgate

import (
	"fmt"
	"io"
	"os"

	"github.com/secretgate/secretgate/internal/git"
	"github.com/secretgate/secretgate/internal/pipeline"
	"github.com/secretgate/secretgate/internal/policy"
	"github.com/secretgate/secretgate/internal/report"
	"github.com/secretgate/secretgate/internal/update"
	"github.com/secretgate/secretgate/internal/validate"
	"github.com/secretgate/secretgate/pkg/core"
	"github.com/spf13/cobra"
)

var (
	flagFindings     string
	flagPolicy       string
	flagAllowNetwork bool
	flagQPS          float64
	flagRepoRoot     string
	flagPublic       bool
	flagExternal     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Enforce the policy against detector findings",
		RunE:  runGate,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagFindings, "findings", "f", "-", "findings JSON file (- for stdin)")
	cmd.Flags().StringVar(&flagPolicy, "policy", ".secretgate.yml", "policy file")
	cmd.Flags().BoolVar(&flagAllowNetwork, "allow-network", false, "allow validators to make network calls")
	cmd.Flags().Float64Var(&flagQPS, "qps", 0, "global validator rate limit (0 = policy value)")
	cmd.Flags().StringVar(&flagRepoRoot, "repo-root", ".", "repository root for history lookups")
	cmd.Flags().BoolVar(&flagPublic, "public", false, "treat the repository as publicly visible")
	cmd.Flags().BoolVar(&flagExternal, "external-contributors", false, "repository accepts external contributors")
}

func runGate(cmd *cobra.Command, _ []string) error {
	cfg, err := policy.Load(flagPolicy)
	if err != nil {
		return err
	}

	allowNetwork := pickBool(flagAllowNetwork, &cfg.Validators.AllowNetwork, nil)
	qps := pickFloat(flagQPS, &cfg.Validators.GlobalQPS, nil)

	if !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(version, !allowNetwork); newer && latest != "" {
			fmt.Fprintf(os.Stderr, "secretgate %s is available (current %s)\n", latest, version)
		}
	}
	if flagSelfUpdate {
		if err := selfUpdate(); err != nil {
			fmt.Fprintln(os.Stderr, "self-update warning:", err)
		}
	}

	findings, err := readFindings(flagFindings)
	if err != nil {
		return fmt.Errorf("read findings: %w", err)
	}
	findings = git.AnnotateHistory(flagRepoRoot, findings)

	reg, err := validate.DefaultRegistry()
	if err != nil {
		return err
	}
	enricher := pipeline.New(reg, pipeline.Options{
		AllowNetwork: allowNetwork,
		GlobalQPS:    qps,
		Repo: core.RepoContext{
			IsPublic:                flagPublic,
			HasExternalContributors: flagExternal,
		},
	})
	enriched := enricher.Enrich(cmd.Context(), findings)
	res := policy.Enforce(cfg, enriched)

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, enriched); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := core.MarshalGateOutput(os.Stdout, core.GateOutput{Findings: enriched, Policy: res}); err != nil {
			return err
		}
	default:
		report.PrintGateReport(os.Stdout, enriched, res, report.PrintOptions{NoColor: flagNoColor})
		if repo, commit, branch := git.RepoMetadata(flagRepoRoot); commit != "" {
			fmt.Fprintf(os.Stderr, "repo: %s commit: %.12s branch: %s\n", repo, commit, branch)
		}
	}

	if !res.Passed {
		os.Exit(1)
	}
	return nil
}

func readFindings(path string) ([]core.Finding, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return core.UnmarshalFindings(r)
}
