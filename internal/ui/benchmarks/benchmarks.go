// Package benchmarks provides timing estimates for the apply phases.
package benchmarks

import "time"

// DefaultTimings are median phase durations in seconds, measured against
// Hetzner Cloud with the starter playbook. Configure dominates and varies
// most with the playbook, which is why ETAs rescale as phases finish.
var DefaultTimings = map[string]int{
	"plan":      2,
	"ssh-key":   2,
	"firewall":  3,
	"volume":    8,
	"server":    45,
	"inventory": 1,
	"probe":     45,
	"configure": 150,
}

// PhaseOrder is the apply sequence used for ETA calculation.
var PhaseOrder = []string{
	"plan",
	"ssh-key",
	"firewall",
	"volume",
	"server",
	"inventory",
	"probe",
	"configure",
}

// EstimateRemaining calculates the time left from the current phase, its
// elapsed time and the actual durations of completed phases, applying a
// performance scale factor.
func EstimateRemaining(currentPhase string, phaseElapsed time.Duration, completed map[string]time.Duration, scale float64) time.Duration {
	currentIdx := -1
	for i, p := range PhaseOrder {
		if p == currentPhase {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration

	// Current phase: max(0, scaled expectation - elapsed).
	if expected, ok := DefaultTimings[currentPhase]; ok {
		expectedDur := time.Duration(float64(expected) * scale * float64(time.Second))
		if expectedDur > phaseElapsed {
			remaining += expectedDur - phaseElapsed
		}
	}

	// Future phases at their scaled expectation.
	for i := currentIdx + 1; i < len(PhaseOrder); i++ {
		phase := PhaseOrder[i]
		if _, done := completed[phase]; done {
			continue
		}
		if expected, ok := DefaultTimings[phase]; ok {
			remaining += time.Duration(float64(expected) * scale * float64(time.Second))
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected
// durations of finished phases. Expected 45s, observed 90s means scale 2.0
// and future estimates are stretched accordingly.
func PerformanceScale(currentPhase string, phaseElapsed time.Duration, completed map[string]time.Duration) float64 {
	var expectedTotal time.Duration
	var actualTotal time.Duration

	for phase, actual := range completed {
		expectedSecs, ok := DefaultTimings[phase]
		if !ok {
			continue
		}
		expectedTotal += time.Duration(expectedSecs) * time.Second
		actualTotal += actual
	}

	// Fold in an overrunning current phase so the ETA adapts quickly.
	if expectedSecs, ok := DefaultTimings[currentPhase]; ok && phaseElapsed > 0 {
		expectedCurrent := time.Duration(expectedSecs) * time.Second
		if phaseElapsed > expectedCurrent {
			expectedTotal += expectedCurrent
			actualTotal += phaseElapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.6 {
		return 0.6
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// TotalEstimate returns the expected duration of a full apply.
func TotalEstimate() time.Duration {
	var total time.Duration
	for _, phase := range PhaseOrder {
		if secs, ok := DefaultTimings[phase]; ok {
			total += time.Duration(secs) * time.Second
		}
	}
	return total
}
