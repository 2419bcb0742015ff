package so

// FeeBps is the protocol fee on exercise proceeds, in basis points.
const FeeBps = 350

// splitFee divides a quote amount into the protocol fee and the net
// remainder. The fee is floored, so fee + net == total exactly.
func splitFee(total uint64) (fee, net uint64) {
	fee = total / 10_000 * FeeBps
	if rem := total % 10_000; rem != 0 {
		fee += rem * FeeBps / 10_000
	}
	return fee, total - fee
}
