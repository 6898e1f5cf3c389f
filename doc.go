// Package fairbench measures fairness disparity of a binary classifier.
//
// # Overview
//
// fairbench computes the Balanced Error Rate (BER) ratio between two
// demographic cohorts of a classifier's predictions. Repeated balanced
// resampling controls for class-size imbalance, so the comparison is not
// dominated by whichever cohort happens to have more rows.
//
//	BER        = (FPR + FNR) / 2
//	BER ratio  = mean BER(non-privileged) / mean BER(privileged)
//
// # The Algorithm
//
// One cohesive pipeline, leaf to root:
//
//   - Stratified Sampler: partition the dataset into four strata
//     (2 cohorts × case/control), find the common minimum stratum size,
//     and draw reproducible equal-size resamples from each stratum.
//   - BER Aggregator: compute BER per cohort per sample, average across
//     samples, and take the ratio of the two means.
//
// Every draw is seeded by a distinct draw index taken without replacement
// from the pool [10, seed), so a run is fully reproducible from its seed.
//
// # Interpretation
//
// The verdict thresholds are fixed constants of the domain:
//
//   - ratio ≥ 1.25: bias reported against the privileged cohort label
//   - ratio ≤ 0.80: bias reported against the non-privileged cohort label
//   - otherwise:    no selection bias observed
//
// A ratio of 0.0 is a sentinel, not a measurement: it means one cohort's
// mean BER was exactly zero (a perfect classifier or an undefined
// confusion matrix) and the ratio is degenerate. Warnings are logged
// whenever a sentinel substitutes for a real value.
//
// # Quick Start
//
//	ds, err := fairbench.LoadDataset("in_race.csv", "race_source_value")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sampler := fairbench.NewSampler("White", "Black or African American", 3, 10678)
//	collection, err := sampler.BuildSamples(ds)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ratio, err := fairbench.RatioFromSamples(collection)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("BER Ratio: %g\n", ratio)
//	fmt.Println(fairbench.ClassifyRatio(ratio).Describe("White", "Black or African American"))
//
// Or pin the whole run down in a YAML scenario and execute it:
//
//	scenario, err := fairbench.LoadScenario("audit.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ratio, verdict, err := scenario.Run()
//
// # CLI
//
// The cmd/fairbench binary exposes the same pipeline:
//
//	fairbench --input-file in_race.csv \
//	          --split-field race_source_value \
//	          --demo-attributes "White,Black or African American" \
//	          --sample-count 3 \
//	          --random-seed 10678
//
// The privileged cohort goes first in --demo-attributes. The seed must
// exceed 10 plus the sample count, or the draw-index pool is too small
// and the run aborts before any sampling.
//
// # Testing
//
// Assertion helpers state the statistical invariants directly:
//
//	func TestMyClassifierAudit(t *testing.T) {
//		fairbench.AssertBERBounded(t, labels, predictions)
//		fairbench.AssertBalancedPairs(t, collection)
//		fairbench.AssertReproducibleSampling(t, dataset, sampler)
//	}
//
// # Scope
//
// fairbench is a single-run, in-memory audit tool. It does not train
// models, persist state, or compute other fairness metrics such as
// equalized odds. Binary labels only.
package fairbench
