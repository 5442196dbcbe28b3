package dex

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"flashlend/internal/model"
)

var (
	callbackArgs     abi.Arguments
	callbackArgsOnce sync.Once
	callbackArgsErr  error
)

func callbackArguments() (abi.Arguments, error) {
	callbackArgsOnce.Do(func() {
		addressType, err := abi.NewType("address", "", nil)
		if err != nil {
			callbackArgsErr = err
			return
		}
		uint256Type, err := abi.NewType("uint256", "", nil)
		if err != nil {
			callbackArgsErr = err
			return
		}
		bytesType, err := abi.NewType("bytes", "", nil)
		if err != nil {
			callbackArgsErr = err
			return
		}
		callbackArgs = abi.Arguments{
			{Name: "sender", Type: addressType},
			{Name: "amount0", Type: uint256Type},
			{Name: "amount1", Type: uint256Type},
			{Name: "data", Type: bytesType},
		}
	})
	return callbackArgs, callbackArgsErr
}

// DecodeCallbackPayload decodes a raw flash-loan callback: the 4-byte
// callback selector followed by the ABI encoding of
// (initiator, amount0, amount1, extra).
func DecodeCallbackPayload(payload []byte) (model.CallbackPayload, error) {
	selector := CallbackSelector()
	if len(payload) < len(selector) || !bytes.Equal(payload[:len(selector)], selector[:]) {
		return model.CallbackPayload{}, fmt.Errorf("%w: want %x", model.ErrInvalidCallback, selector)
	}

	args, err := callbackArguments()
	if err != nil {
		return model.CallbackPayload{}, fmt.Errorf("build callback arguments: %w", err)
	}

	values, err := args.Unpack(payload[len(selector):])
	if err != nil {
		return model.CallbackPayload{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}
	if len(values) != 4 {
		return model.CallbackPayload{}, fmt.Errorf("%w: unexpected value count %d", model.ErrMalformedPayload, len(values))
	}

	initiator, ok := values[0].(common.Address)
	if !ok {
		return model.CallbackPayload{}, fmt.Errorf("%w: initiator is %T", model.ErrMalformedPayload, values[0])
	}
	amount0, ok := values[1].(*big.Int)
	if !ok {
		return model.CallbackPayload{}, fmt.Errorf("%w: amount0 is %T", model.ErrMalformedPayload, values[1])
	}
	amount1, ok := values[2].(*big.Int)
	if !ok {
		return model.CallbackPayload{}, fmt.Errorf("%w: amount1 is %T", model.ErrMalformedPayload, values[2])
	}
	extra, ok := values[3].([]byte)
	if !ok {
		return model.CallbackPayload{}, fmt.Errorf("%w: extra is %T", model.ErrMalformedPayload, values[3])
	}

	return model.CallbackPayload{
		Initiator: initiator,
		Amount0:   amount0,
		Amount1:   amount1,
		Extra:     extra,
	}, nil
}

// EncodeCallbackPayload builds the raw callback bytes a pair sends to the
// borrower. The inverse of DecodeCallbackPayload.
func EncodeCallbackPayload(initiator common.Address, amount0, amount1 *big.Int, extra []byte) ([]byte, error) {
	args, err := callbackArguments()
	if err != nil {
		return nil, fmt.Errorf("build callback arguments: %w", err)
	}
	if amount0 == nil {
		amount0 = new(big.Int)
	}
	if amount1 == nil {
		amount1 = new(big.Int)
	}
	if extra == nil {
		extra = []byte{}
	}

	body, err := args.Pack(initiator, amount0, amount1, extra)
	if err != nil {
		return nil, fmt.Errorf("pack callback payload: %w", err)
	}

	selector := CallbackSelector()
	return append(selector[:], body...), nil
}
