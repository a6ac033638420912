package core

// ComputeFee splits a gross credit amount into the platform fee and the net
// seller payout. The fee is floor(gross * feeRateBps / 10000); rounding is
// always down. Credits are indivisible, so the arithmetic is exact-integer
// throughout.
func ComputeFee(gross int64, feeRateBps int) (fee, net int64) {
	fee = gross * int64(feeRateBps) / 10000
	return fee, gross - fee
}
