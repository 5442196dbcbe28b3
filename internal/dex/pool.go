package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Caller performs read-only contract calls. *chain.Client satisfies it; tests
// use fakes.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Pool is a capability-typed handle to a V2 pair. Handles come from the
// resolver's factory lookup or from TrustPool; there is no way to cast an
// arbitrary address into one by accident.
type Pool struct {
	addr common.Address
}

// TrustPool wraps an explicit pair address the caller vouches for. No
// factory validation is performed.
func TrustPool(addr common.Address) Pool {
	return Pool{addr: addr}
}

// Address returns the pair's contract address.
func (p Pool) Address() common.Address {
	return p.addr
}

// PairTokens holds a pair's canonical token slots: token0 < token1 by
// address.
type PairTokens struct {
	Token0 common.Address
	Token1 common.Address
}

// PairTokensCache caches pair token slots by pool address. Token slots are
// immutable on chain, so entries never expire.
type PairTokensCache struct {
	mu   sync.RWMutex
	data map[common.Address]PairTokens
}

func NewPairTokensCache() *PairTokensCache {
	return &PairTokensCache{data: make(map[common.Address]PairTokens)}
}

func (c *PairTokensCache) Get(address common.Address) (PairTokens, bool) {
	c.mu.RLock()
	tokens, ok := c.data[address]
	c.mu.RUnlock()
	return tokens, ok
}

func (c *PairTokensCache) Set(address common.Address, tokens PairTokens) {
	c.mu.Lock()
	c.data[address] = tokens
	c.mu.Unlock()
}

// FetchPairTokens reads token0 and token1 from the pair contract.
func FetchPairTokens(ctx context.Context, caller Caller, pool Pool, cache *PairTokensCache) (PairTokens, error) {
	if caller == nil {
		return PairTokens{}, fmt.Errorf("caller is nil")
	}

	if cache != nil {
		if tokens, ok := cache.Get(pool.Address()); ok {
			return tokens, nil
		}
	}

	pairABI, err := V2PairABI()
	if err != nil {
		return PairTokens{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callMethod(ctx, caller, pool.Address(), pairABI, "token0")
	if err != nil {
		return PairTokens{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return PairTokens{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callMethod(ctx, caller, pool.Address(), pairABI, "token1")
	if err != nil {
		return PairTokens{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return PairTokens{}, fmt.Errorf("token1: %w", err)
	}

	tokens := PairTokens{Token0: token0, Token1: token1}
	if cache != nil {
		cache.Set(pool.Address(), tokens)
	}
	return tokens, nil
}

// SortAssets orders two asset addresses ascending, matching the factory's
// canonical token0/token1 assignment.
func SortAssets(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a.Bytes(), b.Bytes()) < 0 {
		return a, b
	}
	return b, a
}

func callMethod(ctx context.Context, caller Caller, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}
