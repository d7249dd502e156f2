package bloom

import "math"

// optimalFilterSize returns the number of slots m for an expected
// cardinality n at a 1% false-positive target: m = ceil(-n * ln(0.01) / ln(2)^2).
func optimalFilterSize(cardinality uint32) int {
	multiplier := -math.Log(0.01) / (math.Ln2 * math.Ln2)

	size := int(math.Ceil(float64(cardinality) * multiplier))
	if size < 1 {
		return 1
	}
	return size
}

// optimalNbOfHashFunctions returns the probe count k = (m/n) * ln(2).
func optimalNbOfHashFunctions(cardinality uint32, filterSize int) int {
	nbHashes := int(float64(filterSize) / float64(cardinality) * math.Ln2)
	if nbHashes < 1 {
		return 1
	}
	return nbHashes
}
