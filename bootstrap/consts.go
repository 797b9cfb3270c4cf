package bootstrap

const (
	// 10th percentile, the low-flow statistic
	DefaultQuantile   = 0.10
	DefaultConfidence = 0.95
	DefaultRepeats    = 3000
)
