package config

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"flashlend/internal/model"
)

func TestRegistryBuiltinMainnet(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	network, err := registry.Lookup("mainnet")
	if err != nil {
		t.Fatalf("lookup mainnet: %v", err)
	}
	if network.WrappedNative != common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2") {
		t.Fatalf("wrapped native = %s", network.WrappedNative.Hex())
	}
	if network.Factory == (common.Address{}) {
		t.Fatal("factory is zero")
	}
}

func TestRegistryUnsupportedNetwork(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	_, err = registry.Lookup("sepolia")
	if !errors.Is(err, model.ErrUnsupportedNetwork) {
		t.Fatalf("err = %v, want ErrUnsupportedNetwork", err)
	}
}

func TestRegistryExtraNetwork(t *testing.T) {
	registry, err := NewRegistry(map[string]NetworkSpec{
		"base": {
			WrappedNative:   "0x4200000000000000000000000000000000000006",
			ReferenceStable: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			Factory:         "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6",
		},
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	network, err := registry.Lookup("base")
	if err != nil {
		t.Fatalf("lookup base: %v", err)
	}
	if network.WrappedNative != common.HexToAddress("0x4200000000000000000000000000000000000006") {
		t.Fatalf("wrapped native = %s", network.WrappedNative.Hex())
	}

	// The built-in entry stays reachable.
	if _, err := registry.Lookup("mainnet"); err != nil {
		t.Fatalf("lookup mainnet: %v", err)
	}
}

func TestRegistryRejectsBadSpecs(t *testing.T) {
	cases := []NetworkSpec{
		{WrappedNative: "not-an-address", ReferenceStable: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Factory: "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6"},
		{WrappedNative: "0x4200000000000000000000000000000000000006", ReferenceStable: "", Factory: "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6"},
		{WrappedNative: "0x4200000000000000000000000000000000000006", ReferenceStable: "0x4200000000000000000000000000000000000006", Factory: "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6"},
	}

	for i, spec := range cases {
		if _, err := NewRegistry(map[string]NetworkSpec{"x": spec}); err == nil {
			t.Fatalf("case %d: bad spec accepted", i)
		}
	}
}
