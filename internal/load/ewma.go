// ABOUTME: Acute/chronic exponentially weighted moving averages and ACWR.
// ABOUTME: Chronic of zero yields the sentinel ratio 1.0, never Inf or NaN.
package load

const (
	// AcuteDays is the fast EWMA time constant (recent load, "fatigue" horizon).
	AcuteDays = 7.0

	// ChronicDays is the slow EWMA time constant (long-term load tolerance).
	ChronicDays = 28.0
)

// EWMA advances an exponential moving average with an N-day time constant
// (alpha = 2/(N+1)).
func EWMA(prev, value, days float64) float64 {
	alpha := 2.0 / (days + 1.0)
	return prev + alpha*(value-prev)
}

// ACWR returns the acute:chronic workload ratio, guarded against division
// by zero: an empty chronic history reads as a neutral 1.0.
func ACWR(acute, chronic float64) float64 {
	if chronic <= 0 {
		return 1.0
	}
	return acute / chronic
}
