package loan

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"flashlend/internal/dex"
	"flashlend/internal/model"
)

// flashCallbackMarker is the swap data for every borrow call. A pair invoked
// with empty data performs a plain swap instead of calling back, so the
// marker is always non-empty.
var flashCallbackMarker = []byte{0x01}

// Builder turns a borrow request into the exact pair swap call that releases
// the requested asset to the borrower.
type Builder struct {
	resolver *dex.Resolver
	caller   dex.Caller
	cache    *dex.PairTokensCache
	borrower common.Address
	logger   *zap.Logger
}

// NewBuilder builds a Builder. The borrower address is the contract that
// receives the funds and the callback.
func NewBuilder(resolver *dex.Resolver, caller dex.Caller, cache *dex.PairTokensCache, borrower common.Address, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		resolver: resolver,
		caller:   caller,
		cache:    cache,
		borrower: borrower,
		logger:   logger,
	}
}

// Build resolves the pool for the requested asset and produces the borrow
// call with the amount in the slot whose token is the asset. Resolution
// failures propagate unchanged.
func (b *Builder) Build(ctx context.Context, network string, explicitPool *common.Address, asset common.Address, amount *big.Int) (model.BorrowCall, error) {
	if amount == nil || amount.Sign() <= 0 {
		return model.BorrowCall{}, fmt.Errorf("amount must be positive")
	}

	pool, err := b.resolver.Resolve(ctx, network, explicitPool, asset)
	if err != nil {
		return model.BorrowCall{}, err
	}

	tokens, err := dex.FetchPairTokens(ctx, b.caller, pool, b.cache)
	if err != nil {
		return model.BorrowCall{}, err
	}

	amount0Out := new(big.Int)
	amount1Out := new(big.Int)
	switch asset {
	case tokens.Token0:
		amount0Out.Set(amount)
	case tokens.Token1:
		amount1Out.Set(amount)
	default:
		return model.BorrowCall{}, fmt.Errorf("asset %s is not a token of pair %s", asset.Hex(), pool.Address().Hex())
	}

	b.logger.Debug("borrow call built",
		zap.String("pool", pool.Address().Hex()),
		zap.String("asset", asset.Hex()),
		zap.String("amount", amount.String()),
	)

	return model.BorrowCall{
		Pool:         pool.Address(),
		Amount0Out:   amount0Out,
		Amount1Out:   amount1Out,
		Recipient:    b.borrower,
		CallbackData: flashCallbackMarker,
	}, nil
}
