package llm

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy controls how failed generation calls are retried.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Multiplier    float64
	JitterPercent float64
}

// DefaultRetryPolicy allows three attempts with a short exponential
// ramp.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      8 * time.Second,
		Multiplier:    2.0,
		JitterPercent: 0.2,
	}
}

// CalculateDelay computes the backoff delay for a given attempt.
// Formula: delay = initial * (multiplier ^ attempt), capped at MaxDelay.
func (p RetryPolicy) CalculateDelay(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	factor := math.Pow(multiplier, float64(attempt))
	delay := time.Duration(float64(p.InitialDelay) * factor)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	return addJitter(delay, p.JitterPercent)
}

// addJitter applies a random ±jitterPercent offset to prevent
// synchronized retries.
func addJitter(delay time.Duration, jitterPercent float64) time.Duration {
	if jitterPercent <= 0 {
		return delay
	}

	jitterRange := float64(delay) * jitterPercent
	offset := (rand.Float64()*2 - 1) * jitterRange
	jittered := time.Duration(float64(delay) + offset)

	if jittered < time.Millisecond {
		return time.Millisecond
	}
	return jittered
}
