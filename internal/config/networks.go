package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"flashlend/internal/model"
)

// Network holds the per-network constants the pair resolver needs: the
// wrapped native asset, a reference stable to pair the wrapped native with,
// and the pair factory.
type Network struct {
	WrappedNative   common.Address
	ReferenceStable common.Address
	Factory         common.Address
}

// NetworkSpec is the config-file shape of a Network entry.
type NetworkSpec struct {
	WrappedNative   string `mapstructure:"wrapped_native"`
	ReferenceStable string `mapstructure:"reference_stable"`
	Factory         string `mapstructure:"factory"`
}

// Registry maps network names to their constants. Built once at startup and
// read-only afterwards.
type Registry struct {
	networks map[string]Network
}

// Ethereum mainnet constants: WETH, USDC, Uniswap V2 factory.
var mainnet = Network{
	WrappedNative:   common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	ReferenceStable: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	Factory:         common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
}

// NewRegistry builds the network table: the built-in mainnet entry merged
// with any extra specs. A spec under an existing key replaces the built-in.
func NewRegistry(extra map[string]NetworkSpec) (*Registry, error) {
	networks := map[string]Network{
		"mainnet": mainnet,
	}

	for name, spec := range extra {
		network, err := parseNetworkSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("network %q: %w", name, err)
		}
		networks[name] = network
	}

	return &Registry{networks: networks}, nil
}

// Lookup returns the constants for a network name.
func (r *Registry) Lookup(name string) (Network, error) {
	network, ok := r.networks[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", model.ErrUnsupportedNetwork, name)
	}
	return network, nil
}

func parseNetworkSpec(spec NetworkSpec) (Network, error) {
	wrapped, err := parseAddress(spec.WrappedNative, "wrapped_native")
	if err != nil {
		return Network{}, err
	}
	stable, err := parseAddress(spec.ReferenceStable, "reference_stable")
	if err != nil {
		return Network{}, err
	}
	factory, err := parseAddress(spec.Factory, "factory")
	if err != nil {
		return Network{}, err
	}
	if wrapped == stable {
		return Network{}, fmt.Errorf("wrapped_native and reference_stable must differ")
	}
	return Network{
		WrappedNative:   wrapped,
		ReferenceStable: stable,
		Factory:         factory,
	}, nil
}

func parseAddress(value, field string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", field, value)
	}
	return common.HexToAddress(value), nil
}
