package loan

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"go.uber.org/zap"

	"flashlend/internal/dex"
	"flashlend/internal/model"
)

// Settler computes the repayments owed after a flash-loan callback. It emits
// the ordered transfer list; executing the transfers is the caller's job.
type Settler struct {
	caller dex.Caller
	cache  *dex.PairTokensCache
	logger *zap.Logger
}

// NewSettler builds a Settler.
func NewSettler(caller dex.Caller, cache *dex.PairTokensCache, logger *zap.Logger) *Settler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Settler{
		caller: caller,
		cache:  cache,
		logger: logger,
	}
}

// Settle decodes a callback payload and returns one repay transfer per
// non-zero borrowed slot, slot1 first. The sender must be the pool the loan
// was built against; any error aborts with no transfers.
func (s *Settler) Settle(ctx context.Context, payload []byte, sender, expectedPool common.Address) ([]model.RepayTransfer, error) {
	if sender != expectedPool {
		return nil, fmt.Errorf("%w: sender %s is not pool %s", model.ErrInvalidCallback, sender.Hex(), expectedPool.Hex())
	}

	decoded, err := dex.DecodeCallbackPayload(payload)
	if err != nil {
		return nil, err
	}

	pool := dex.TrustPool(sender)
	tokens, err := dex.FetchPairTokens(ctx, s.caller, pool, s.cache)
	if err != nil {
		return nil, err
	}

	slots := []struct {
		asset  common.Address
		amount *big.Int
	}{
		{tokens.Token1, decoded.Amount1},
		{tokens.Token0, decoded.Amount0},
	}

	var transfers []model.RepayTransfer
	for _, slot := range slots {
		if slot.amount == nil || slot.amount.Sign() == 0 {
			continue
		}

		fee := Fee(slot.amount)
		repay := new(big.Int).Add(slot.amount, fee)
		if repay.Cmp(math.MaxBig256) > 0 {
			return nil, fmt.Errorf("%w: repay %s exceeds uint256", model.ErrArithmeticOverflow, repay.String())
		}

		s.logger.Debug("repayment computed",
			zap.String("pool", sender.Hex()),
			zap.String("asset", slot.asset.Hex()),
			zap.String("borrowed", slot.amount.String()),
			zap.String("fee", fee.String()),
		)

		transfers = append(transfers, model.RepayTransfer{
			Asset:  slot.asset,
			To:     sender,
			Amount: repay,
		})
	}

	return transfers, nil
}
