// Package fees holds the protocol's basis-point fee arithmetic. All functions
// are pure integer math with floor division and never fail.
package fees

const (
	// ProtocolFeeBps is charged on release (1%).
	ProtocolFeeBps uint64 = 100
	// DisputeFeeBps is charged on dispute resolution (2%).
	DisputeFeeBps uint64 = 200
	// BpsDenominator is the basis-point scale.
	BpsDenominator uint64 = 10000
)

// ProtocolFee returns floor(amount * 100 / 10000).
func ProtocolFee(amount uint64) uint64 {
	return mulBps(amount, ProtocolFeeBps)
}

// DisputeFee returns floor(amount * 200 / 10000).
func DisputeFee(amount uint64) uint64 {
	return mulBps(amount, DisputeFeeBps)
}

// mulBps computes floor(amount*bps/BpsDenominator) without overflowing uint64:
// floor(a*b/d) == (a/d)*b + floor((a%d)*b/d) for d > 0.
func mulBps(amount, bps uint64) uint64 {
	return (amount/BpsDenominator)*bps + (amount%BpsDenominator)*bps/BpsDenominator
}
