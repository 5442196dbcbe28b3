package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "flashlend",
		Short:        "V2 flash-loan planner and settler",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve the pool and build the borrow call",
		RunE:  runPlan,
	}

	planCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	planCmd.Flags().String("network", "mainnet", "network name")
	planCmd.Flags().String("pool", "", "explicit pair address (skips factory lookup)")
	planCmd.Flags().String("asset", "", "asset to borrow")
	planCmd.Flags().String("amount", "", "amount to borrow (smallest denomination)")
	planCmd.Flags().String("borrower", "", "borrower contract address")
	planCmd.Flags().String("audit-out", "./data/loan_plans.jsonl", "audit JSONL path")
	planCmd.Flags().String("pg-dsn", "", "Postgres DSN for audit records")
	planCmd.Flags().Int("dial-retries", 3, "RPC dial retry attempts")
	planCmd.Flags().Duration("dial-backoff", 500*time.Millisecond, "initial RPC dial backoff")
	planCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(planCmd)

	settleCmd := &cobra.Command{
		Use:   "settle",
		Short: "Decode a callback payload and compute the repayments",
		RunE:  runSettle,
	}

	settleCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	settleCmd.Flags().String("pool", "", "pool the loan was built against")
	settleCmd.Flags().String("sender", "", "callback sender (defaults to the pool)")
	settleCmd.Flags().String("payload", "", "callback payload hex")
	settleCmd.Flags().String("audit-out", "./data/settlements.jsonl", "audit JSONL path")
	settleCmd.Flags().String("pg-dsn", "", "Postgres DSN for audit records")
	settleCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(settleCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
