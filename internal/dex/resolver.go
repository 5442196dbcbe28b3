package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"flashlend/internal/config"
	"flashlend/internal/model"
)

// Resolver maps a (network, asset) request, or an explicit pair address, to a
// pool handle.
type Resolver struct {
	registry *config.Registry
	caller   Caller
	logger   *zap.Logger
}

// NewResolver builds a Resolver with its dependencies.
func NewResolver(registry *config.Registry, caller Caller, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		registry: registry,
		caller:   caller,
		logger:   logger,
	}
}

// Resolve returns the pool to borrow from. An explicit pool is returned as
// given, without any factory query; the caller vouches for it. Otherwise the
// asset is paired with the network's default counter-asset and the factory is
// asked for the pair.
func (r *Resolver) Resolve(ctx context.Context, network string, explicitPool *common.Address, asset common.Address) (Pool, error) {
	if explicitPool != nil {
		return TrustPool(*explicitPool), nil
	}

	cfg, err := r.registry.Lookup(network)
	if err != nil {
		return Pool{}, err
	}

	// Pair against the wrapped native asset, unless the asset itself is the
	// wrapped native: then pair against the reference stable so the pool is
	// never asked for an asset paired with itself.
	defaultAsset := cfg.WrappedNative
	if asset == cfg.WrappedNative {
		defaultAsset = cfg.ReferenceStable
	}

	token0, token1 := SortAssets(defaultAsset, asset)

	pair, err := r.getPair(ctx, cfg.Factory, token0, token1)
	if err != nil {
		return Pool{}, err
	}
	if pair == (common.Address{}) {
		return Pool{}, fmt.Errorf("%w: factory %s has no pair (%s, %s)",
			model.ErrPoolNotFound, cfg.Factory.Hex(), token0.Hex(), token1.Hex())
	}

	r.logger.Debug("pair resolved",
		zap.String("network", network),
		zap.String("asset", asset.Hex()),
		zap.String("pair", pair.Hex()),
	)

	return TrustPool(pair), nil
}

func (r *Resolver) getPair(ctx context.Context, factory, token0, token1 common.Address) (common.Address, error) {
	factoryABI, err := V2FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}

	values, err := callMethod(ctx, r.caller, factory, factoryABI, "getPair", token0, token1)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}
