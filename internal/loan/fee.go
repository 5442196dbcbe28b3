package loan

import "math/big"

// fee schedule: 0.3% pools retain 997/1000 on swaps, so the repayment
// surcharge is the inverse, floor(amount * 3 / 997), plus one so rounding can
// never let a zero-fee repayment through.
var (
	feeNum = big.NewInt(3)
	feeDen = big.NewInt(997)
)

// Fee returns the repayment surcharge for a borrowed amount. Pure; always at
// least 1 and monotone non-decreasing in amount.
func Fee(amount *big.Int) *big.Int {
	fee := new(big.Int).Mul(amount, feeNum)
	fee.Div(fee, feeDen)
	return fee.Add(fee, big.NewInt(1))
}
