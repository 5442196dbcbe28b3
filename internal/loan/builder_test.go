package loan

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"flashlend/internal/config"
	"flashlend/internal/dex"
)

var (
	wethAddr     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdcAddr     = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	pairAddr     = common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	borrowerAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// fakePairCaller serves token0/token1 for one pair and getPair for one
// factory.
type fakePairCaller struct {
	factory common.Address
	pair    common.Address
	token0  common.Address
	token1  common.Address
}

func (f *fakePairCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	pairABI, err := dex.V2PairABI()
	if err != nil {
		return nil, err
	}
	factoryABI, err := dex.V2FactoryABI()
	if err != nil {
		return nil, err
	}

	switch {
	case msg.To != nil && *msg.To == f.factory && bytes.HasPrefix(msg.Data, factoryABI.Methods["getPair"].ID):
		return common.LeftPadBytes(f.pair.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, pairABI.Methods["token0"].ID):
		return common.LeftPadBytes(f.token0.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, pairABI.Methods["token1"].ID):
		return common.LeftPadBytes(f.token1.Bytes(), 32), nil
	default:
		return nil, fmt.Errorf("unexpected call to %v", msg.To)
	}
}

func newTestBuilder(t *testing.T, caller dex.Caller) *Builder {
	t.Helper()
	registry, err := config.NewRegistry(nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	resolver := dex.NewResolver(registry, caller, nil)
	return NewBuilder(resolver, caller, dex.NewPairTokensCache(), borrowerAddr, nil)
}

func TestBuildAssetInSlot0(t *testing.T) {
	caller := &fakePairCaller{pair: pairAddr, token0: usdcAddr, token1: wethAddr}
	builder := newTestBuilder(t, caller)

	call, err := builder.Build(context.Background(), "mainnet", &pairAddr, usdcAddr, big.NewInt(500))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if call.Amount0Out.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("amount0Out = %s, want 500", call.Amount0Out)
	}
	if call.Amount1Out.Sign() != 0 {
		t.Fatalf("amount1Out = %s, want 0", call.Amount1Out)
	}
	if call.Pool != pairAddr {
		t.Fatalf("pool = %s, want %s", call.Pool.Hex(), pairAddr.Hex())
	}
	if call.Recipient != borrowerAddr {
		t.Fatalf("recipient = %s, want %s", call.Recipient.Hex(), borrowerAddr.Hex())
	}
}

func TestBuildAssetInSlot1(t *testing.T) {
	caller := &fakePairCaller{pair: pairAddr, token0: usdcAddr, token1: wethAddr}
	builder := newTestBuilder(t, caller)

	call, err := builder.Build(context.Background(), "mainnet", &pairAddr, wethAddr, big.NewInt(500))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if call.Amount0Out.Sign() != 0 {
		t.Fatalf("amount0Out = %s, want 0", call.Amount0Out)
	}
	if call.Amount1Out.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("amount1Out = %s, want 500", call.Amount1Out)
	}
}

func TestBuildCallbackDataNonEmpty(t *testing.T) {
	caller := &fakePairCaller{pair: pairAddr, token0: usdcAddr, token1: wethAddr}
	builder := newTestBuilder(t, caller)

	call, err := builder.Build(context.Background(), "mainnet", &pairAddr, usdcAddr, big.NewInt(1))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// Empty swap data would turn the loan into a plain swap.
	if len(call.CallbackData) == 0 {
		t.Fatal("callback data is empty")
	}
}

func TestBuildRejectsNonPositiveAmount(t *testing.T) {
	caller := &fakePairCaller{pair: pairAddr, token0: usdcAddr, token1: wethAddr}
	builder := newTestBuilder(t, caller)

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		if _, err := builder.Build(context.Background(), "mainnet", &pairAddr, usdcAddr, amount); err == nil {
			t.Fatalf("build accepted amount %v", amount)
		}
	}
}

func TestBuildRejectsForeignAsset(t *testing.T) {
	caller := &fakePairCaller{pair: pairAddr, token0: usdcAddr, token1: wethAddr}
	builder := newTestBuilder(t, caller)

	foreign := common.HexToAddress("0x4444444444444444444444444444444444444444")
	if _, err := builder.Build(context.Background(), "mainnet", &pairAddr, foreign, big.NewInt(1)); err == nil {
		t.Fatal("build accepted an asset outside the pair")
	}
}
