package fairbench

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Verdict thresholds. These are fixed constants of the audit domain, not
// tunable inputs: a ratio at or above 1.25 or at or below 0.8 is read as
// a disparity, anything between as noise.
const (
	PrivilegedBiasThreshold    = 1.25
	NonPrivilegedBiasThreshold = 0.8
)

// Verdict is the categorical reading of a BER ratio.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictPrivileged
	VerdictNonPrivileged
)

func (v Verdict) String() string {
	switch v {
	case VerdictPrivileged:
		return "privileged"
	case VerdictNonPrivileged:
		return "non-privileged"
	default:
		return "none"
	}
}

// Describe renders the verdict as the user-facing sentence, naming the
// group value the bias points at.
func (v Verdict) Describe(privileged, nonPrivileged string) string {
	switch v {
	case VerdictPrivileged:
		return "There is bias towards the privileged class " + privileged
	case VerdictNonPrivileged:
		return "There is bias towards the unprivileged class " + nonPrivileged
	default:
		return "No selection bias observed."
	}
}

// ClassifyRatio applies the fixed thresholds to a BER ratio.
//
// The ratio is non-privileged BER over privileged BER, so a large ratio
// means the non-privileged cohort carries the larger error. The verdict
// wording follows the established reporting convention for this metric;
// whether "towards" is the right preposition for each direction is a
// question for domain owners, not for this function.
func ClassifyRatio(ratio float64) Verdict {
	switch {
	case ratio >= PrivilegedBiasThreshold:
		return VerdictPrivileged
	case ratio <= NonPrivilegedBiasThreshold:
		return VerdictNonPrivileged
	default:
		return VerdictNone
	}
}

// RatioFromSamples computes the BER ratio over a sample collection.
//
// For every pair it computes BER independently for the privileged and the
// non-privileged evaluation set, averages each side across all pairs, and
// returns mean non-privileged BER divided by mean privileged BER.
//
// A mean of exactly 0.0 on either side makes the ratio degenerate (the
// cohort has no measurable error, or every per-sample BER was the
// undefined-denominator sentinel). That case logs a warning and returns
// the sentinel 0.0 instead of dividing.
//
// Draws are independent and averaging is commutative, so the per-pair BER
// computations run concurrently. Each worker writes only its own index of
// the result slices, keeping the output identical to a sequential pass.
func RatioFromSamples(collection *SampleCollection) (float64, error) {
	if collection == nil || len(collection.Pairs) == 0 {
		return 0, fmt.Errorf("%w: no sample pairs to aggregate", ErrInvalidInput)
	}

	berPrivileged := make([]float64, len(collection.Pairs))
	berNonPrivileged := make([]float64, len(collection.Pairs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pair := range collection.Pairs {
		g.Go(func() error {
			labels, preds := labelsAndPredictions(pair.Privileged)
			ber, err := BER(labels, preds)
			if err != nil {
				return fmt.Errorf("privileged set of sample %d: %w", i, err)
			}
			berPrivileged[i] = ber

			labels, preds = labelsAndPredictions(pair.NonPrivileged)
			ber, err = BER(labels, preds)
			if err != nil {
				return fmt.Errorf("non-privileged set of sample %d: %w", i, err)
			}
			berNonPrivileged[i] = ber
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	meanPrivileged := stat.Mean(berPrivileged, nil)
	meanNonPrivileged := stat.Mean(berNonPrivileged, nil)

	if meanPrivileged == 0.0 {
		slog.Warn("mean BER for the privileged class is 0.0, ratio is degenerate",
			"samples", len(collection.Pairs))
		return 0.0, nil
	}
	if meanNonPrivileged == 0.0 {
		slog.Warn("mean BER for the non-privileged class is 0.0, ratio is degenerate",
			"samples", len(collection.Pairs))
		return 0.0, nil
	}

	return meanNonPrivileged / meanPrivileged, nil
}

// labelsAndPredictions splits an evaluation set into the two parallel
// sequences BER consumes.
func labelsAndPredictions(rows []Record) (labels, predictions []int) {
	labels = make([]int, len(rows))
	predictions = make([]int, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		predictions[i] = r.Prediction
	}
	return labels, predictions
}
