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
)

func runSettle(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSettle(cfgFile, cmd.Flags())
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

	pool, err := parseAddressFlag(cfg.Pool, "pool")
	if err != nil {
		return err
	}

	sender := pool
	if cfg.Sender != "" {
		sender, err = parseAddressFlag(cfg.Sender, "sender")
		if err != nil {
			return err
		}
	}

	if cfg.Payload == "" {
		return fmt.Errorf("payload is required")
	}
	payload, err := hexutil.Decode(cfg.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload hex: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, 0, 0)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	cache := dex.NewPairTokensCache()
	settler := loan.NewSettler(chainClient, cache, logger)

	transfers, err := settler.Settle(ctx, payload, sender, pool)
	if err != nil {
		return err
	}

	decoded, err := dex.DecodeCallbackPayload(payload)
	if err != nil {
		return err
	}

	records := buildSettlementRecords(pool, decoded, transfers)
	for _, record := range records {
		logger.Info("repay transfer",
			zap.String("pool", record.Pool),
			zap.String("asset", record.Asset),
			zap.String("borrowed", record.Borrowed),
			zap.String("fee", record.Fee),
			zap.String("repay", record.Repay),
		)
	}

	sinks, closeSinks, err := buildAuditSinks(ctx, cfg.AuditOut, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer closeSinks()

	for _, sink := range sinks {
		if err := sink.RecordSettlements(ctx, records); err != nil {
			return fmt.Errorf("record settlements: %w", err)
		}
	}

	return nil
}

// buildSettlementRecords pairs each transfer with the borrowed amount it
// repays. Transfers come out slot1 first, matching the settler's order.
func buildSettlementRecords(pool common.Address, decoded model.CallbackPayload, transfers []model.RepayTransfer) []model.SettlementRecord {
	borrowed := make([]*big.Int, 0, 2)
	for _, amount := range []*big.Int{decoded.Amount1, decoded.Amount0} {
		if amount != nil && amount.Sign() != 0 {
			borrowed = append(borrowed, amount)
		}
	}

	now := time.Now().UTC()
	records := make([]model.SettlementRecord, 0, len(transfers))
	for i, transfer := range transfers {
		record := model.SettlementRecord{
			Pool:      pool.Hex(),
			Initiator: decoded.Initiator.Hex(),
			Asset:     transfer.Asset.Hex(),
			Repay:     transfer.Amount.String(),
			CreatedAt: now,
		}
		if i < len(borrowed) {
			record.Borrowed = borrowed[i].String()
			record.Fee = new(big.Int).Sub(transfer.Amount, borrowed[i]).String()
		}
		records = append(records, record)
	}
	return records
}
