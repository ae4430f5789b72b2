package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	postgresRepo "github.com/iho/kosherbill/internal/adapter/repository/postgres"
	"github.com/iho/kosherbill/internal/infrastructure/config"
	"github.com/iho/kosherbill/internal/infrastructure/postgres"
	"github.com/iho/kosherbill/internal/usecase"
)

var (
	baseURL   string
	authToken string
	timeout   time.Duration
)

// bcryptGenerate is swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "kosherbill-cli",
		Short: "KosherBill operations tool",
		Long:  `Operator commands for the KosherBill billing service: ledger reconciliation, account unblocking and worker reports.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the KosherBill API")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("KOSHERBILL_TOKEN"), "Bearer token for API commands")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(reconcileCmd(), unblockCmd())

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}
	reportCmd.AddCommand(monthlyReportCmd())

	rootCmd.AddCommand(ledgerCmd, reportCmd, hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// reconcileCmd recomputes account balances from the ledger. It talks to the
// database directly because a mismatched ledger is exactly the situation in
// which the API cannot be trusted.
func reconcileCmd() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute balances from the ledger and flag mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reconciliationUC, cleanup, err := buildReconciliationUseCase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if accountID != "" {
				result, err := reconciliationUC.ReconcileAccount(ctx, accountID)
				if result != nil {
					printJSON(result)
				}
				return err
			}

			report, err := reconciliationUC.ReconcileAllAccounts(ctx)
			if err != nil {
				return err
			}

			printJSON(report)

			if len(report.Discrepancies) > 0 {
				return fmt.Errorf("%d of %d accounts failed reconciliation",
					len(report.Discrepancies), report.TotalAccounts)
			}

			fmt.Printf("All %d accounts reconciled\n", report.TotalAccounts)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Reconcile a single account instead of sweeping all")

	return cmd
}

// unblockCmd clears a reconciliation write block after the books were fixed.
func unblockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <account-id>",
		Short: "Clear a reconciliation write block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reconciliationUC, cleanup, err := buildReconciliationUseCase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := reconciliationUC.UnblockAccount(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("Account %s unblocked\n", args[0])
			return nil
		},
	}
}

// monthlyReportCmd fetches a worker's monthly hours report from the API.
func monthlyReportCmd() *cobra.Command {
	var (
		month int
		year  int
		store string
	)

	now := time.Now().UTC()

	cmd := &cobra.Command{
		Use:   "monthly <worker-account-id>",
		Short: "Print a worker's monthly hours report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/workers/%s/reports/monthly?month=%d&year=%d",
				baseURL, args[0], month, year)
			if store != "" {
				url += "&store_id=" + store
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			if authToken != "" {
				req.Header.Set("Authorization", "Bearer "+authToken)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("report request failed (status %d): %s",
					resp.StatusCode, truncate(string(body), 200))
			}

			var report map[string]any
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(report)
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Report month (1-12)")
	cmd.Flags().IntVar(&year, "year", now.Year(), "Report year")
	cmd.Flags().StringVar(&store, "store", "", "Limit the report to one store")

	return cmd
}

// hashPasswordCmd hashes a password for seeding accounts by hand.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

func buildReconciliationUseCase(ctx context.Context) (*usecase.ReconciliationUseCase, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)

	return usecase.NewReconciliationUseCase(accountRepo, ledgerRepo), pool.Close, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render output: %v\n", err)
		return
	}

	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}
