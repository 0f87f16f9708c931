package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	jwttoken "dsledger/internal/jwt_token"
	"dsledger/internal/platform/config"
	"dsledger/pkg/domain"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "dsledger",
	Short:         "Compliance-gated security token ledger",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

// policy command
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect compliance policy files",
}

var policyDecimals int32

var policyCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a compliance policy file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.ReadPolicyFile(args[0], policyDecimals)
		if err != nil {
			return err
		}

		countries := make([]string, 0, len(p.AllowedCountries))
		for _, c := range p.Countries() {
			countries = append(countries, c.String())
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Policy %s is valid:\n\n", args[0])
		fmt.Fprintf(out, "Allowed countries:      %s\n", strings.Join(countries, ", "))
		fmt.Fprintf(out, "Max holders:            %s\n", limitString(int64(p.MaxHolders)))
		fmt.Fprintf(out, "Max single transaction: %s\n", displayLimit(p.MaxSingleTransaction.IsZero(), domain.FromBaseUnits(p.MaxSingleTransaction, policyDecimals)))
		fmt.Fprintf(out, "Daily volume limit:     %s\n", displayLimit(p.DailyVolumeLimit.IsZero(), domain.FromBaseUnits(p.DailyVolumeLimit, policyDecimals)))
		fmt.Fprintf(out, "Max supply:             %s\n", displayLimit(p.MaxSupply.IsZero(), domain.FromBaseUnits(p.MaxSupply, policyDecimals)))
		fmt.Fprintf(out, "Issuance enabled:       %t\n", p.IssuanceEnabled)
		return nil
	},
}

func limitString(n int64) string {
	return displayLimit(n == 0, fmt.Sprint(n))
}

func displayLimit(unlimited bool, s string) string {
	if unlimited {
		return "unlimited"
	}
	return s
}

// token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Bearer token utilities",
}

var (
	devActor string
	devTTL   time.Duration
)

var tokenDevCmd = &cobra.Command{
	Use:   "dev",
	Short: "Mint a bearer token for a wallet using the configured signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		actor, err := domain.ParseAddress(devActor)
		if err != nil {
			return fmt.Errorf("--actor: %w", err)
		}
		svc := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
		token, err := svc.GenerateAccessToken(actor, devTTL)
		if err != nil {
			return fmt.Errorf("signing token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	policyCheckCmd.Flags().Int32Var(&policyDecimals, "decimals", 18, "token decimals used to convert display amounts")
	policyCmd.AddCommand(policyCheckCmd)

	tokenDevCmd.Flags().StringVar(&devActor, "actor", "", "wallet address the token acts as")
	tokenDevCmd.Flags().DurationVar(&devTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenDevCmd.MarkFlagRequired("actor")
	tokenCmd.AddCommand(tokenDevCmd)

	rootCmd.AddCommand(serveCmd, policyCmd, tokenCmd)
}
