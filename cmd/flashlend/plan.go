package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flashlend/internal/chain"
	"flashlend/internal/config"
	"flashlend/internal/dex"
	"flashlend/internal/loan"
	"flashlend/internal/model"
	"flashlend/internal/storage"
	"flashlend/internal/storage/postgres"
)

func runPlan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPlan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	asset, err := parseAddressFlag(cfg.Asset, "asset")
	if err != nil {
		return err
	}
	borrower, err := parseAddressFlag(cfg.Borrower, "borrower")
	if err != nil {
		return err
	}
	amount, err := parseAmount(cfg.Amount)
	if err != nil {
		return err
	}

	var explicitPool *common.Address
	if cfg.Pool != "" {
		pool, err := parseAddressFlag(cfg.Pool, "pool")
		if err != nil {
			return err
		}
		explicitPool = &pool
	}

	extraNetworks, err := config.LoadNetworks(cfgFile)
	if err != nil {
		return err
	}
	registry, err := config.NewRegistry(extraNetworks)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.DialRetries, cfg.DialBackoff)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	cache := dex.NewPairTokensCache()
	resolver := dex.NewResolver(registry, chainClient, logger)
	builder := loan.NewBuilder(resolver, chainClient, cache, borrower, logger)

	call, err := builder.Build(ctx, cfg.Network, explicitPool, asset, amount)
	if err != nil {
		return err
	}

	logger.Info("borrow call built",
		zap.String("network", cfg.Network),
		zap.String("pool", call.Pool.Hex()),
		zap.String("asset", asset.Hex()),
		zap.String("amount0_out", call.Amount0Out.String()),
		zap.String("amount1_out", call.Amount1Out.String()),
		zap.String("recipient", call.Recipient.Hex()),
		zap.String("callback_data", hexutil.Encode(call.CallbackData)),
	)

	plan := model.LoanPlan{
		Network:      cfg.Network,
		Pool:         call.Pool.Hex(),
		Asset:        asset.Hex(),
		Amount0Out:   call.Amount0Out.String(),
		Amount1Out:   call.Amount1Out.String(),
		Recipient:    call.Recipient.Hex(),
		CallbackData: hexutil.Encode(call.CallbackData),
		CreatedAt:    time.Now().UTC(),
	}

	sinks, closeSinks, err := buildAuditSinks(ctx, cfg.AuditOut, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer closeSinks()

	for _, sink := range sinks {
		if err := sink.RecordPlan(ctx, plan); err != nil {
			return fmt.Errorf("record plan: %w", err)
		}
	}

	return nil
}

func parseAddressFlag(value, name string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, value)
	}
	return common.HexToAddress(value), nil
}

func parseAmount(value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("amount is required")
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", value)
	}
	return amount, nil
}

func buildAuditSinks(ctx context.Context, jsonlPath, pgDSN string) ([]storage.AuditSink, func(), error) {
	var sinks []storage.AuditSink
	closeSinks := func() {}

	if jsonlPath != "" {
		sinks = append(sinks, storage.NewJsonlAudit(jsonlPath))
	}
	if pgDSN != "" {
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		sinks = append(sinks, store)
		closeSinks = store.Close
	}

	return sinks, closeSinks, nil
}
