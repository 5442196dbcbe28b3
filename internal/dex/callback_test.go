package dex

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"flashlend/internal/model"
)

func TestCallbackSelector(t *testing.T) {
	// keccak256("uniswapV2Call(address,uint256,uint256,bytes)")[:4]
	want := [4]byte{0x10, 0xd1, 0xe8, 0x5c}
	if got := CallbackSelector(); got != want {
		t.Fatalf("selector = %x, want %x", got, want)
	}
}

func TestCallbackPayloadRoundTrip(t *testing.T) {
	initiator := common.HexToAddress("0x1111111111111111111111111111111111111111")
	amount0 := big.NewInt(0)
	amount1 := big.NewInt(1000)
	extra := []byte{0x01}

	payload, err := EncodeCallbackPayload(initiator, amount0, amount1, extra)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeCallbackPayload(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Initiator != initiator {
		t.Fatalf("initiator = %s, want %s", decoded.Initiator.Hex(), initiator.Hex())
	}
	if decoded.Amount0.Sign() != 0 {
		t.Fatalf("amount0 = %s, want 0", decoded.Amount0)
	}
	if decoded.Amount1.Cmp(amount1) != 0 {
		t.Fatalf("amount1 = %s, want %s", decoded.Amount1, amount1)
	}
	if !bytes.Equal(decoded.Extra, extra) {
		t.Fatalf("extra = %x, want %x", decoded.Extra, extra)
	}
}

func TestDecodeCallbackPayloadSelectorMismatch(t *testing.T) {
	payload, err := EncodeCallbackPayload(common.Address{}, big.NewInt(1), big.NewInt(0), nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	payload[0] ^= 0xff

	if _, err := DecodeCallbackPayload(payload); !errors.Is(err, model.ErrInvalidCallback) {
		t.Fatalf("err = %v, want ErrInvalidCallback", err)
	}
}

func TestDecodeCallbackPayloadMalformed(t *testing.T) {
	selector := CallbackSelector()

	cases := [][]byte{
		append(selector[:], 0x00),
		append(selector[:], make([]byte, 64)...),
	}
	for i, payload := range cases {
		if _, err := DecodeCallbackPayload(payload); !errors.Is(err, model.ErrMalformedPayload) {
			t.Fatalf("case %d: err = %v, want ErrMalformedPayload", i, err)
		}
	}
}

func TestDecodeCallbackPayloadTooShort(t *testing.T) {
	if _, err := DecodeCallbackPayload([]byte{0x10, 0xd1}); !errors.Is(err, model.ErrInvalidCallback) {
		t.Fatalf("err = %v, want ErrInvalidCallback", err)
	}
}
