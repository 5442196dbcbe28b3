package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BorrowCall describes a pair swap invocation that borrows one asset from a
// pool. Exactly one of Amount0Out / Amount1Out is non-zero; the non-zero slot
// selects which asset the pool releases.
type BorrowCall struct {
	Pool         common.Address
	Amount0Out   *big.Int
	Amount1Out   *big.Int
	Recipient    common.Address
	CallbackData []byte
}

// RepayTransfer is a single token transfer owed back to the pool after a
// flash loan: the borrowed amount plus its fee.
type RepayTransfer struct {
	Asset  common.Address
	To     common.Address
	Amount *big.Int
}

// CallbackPayload is the decoded body of a flash-loan callback.
type CallbackPayload struct {
	Initiator common.Address
	Amount0   *big.Int
	Amount1   *big.Int
	Extra     []byte
}
