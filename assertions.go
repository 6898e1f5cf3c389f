package fairbench

import (
	"reflect"
	"testing"
)

// Test helpers for the statistical properties of the audit. They let a
// downstream test suite state fairness invariants directly instead of
// re-deriving the arithmetic in every test.

// AssertBERBounded verifies BER stays inside [0, 1] for a valid pair of
// binary sequences.
//
// Mathematical property:
//
//	0 ≤ (FPR + FNR) / 2 ≤ 1 whenever both denominators are non-zero
func AssertBERBounded(t *testing.T, labels, predictions []int) {
	t.Helper()

	ber, err := BER(labels, predictions)
	if err != nil {
		t.Fatalf("BER failed on valid input: %v", err)
	}

	if ber < 0 || ber > 1 {
		t.Errorf("BER out of range: got %.6f, expected value in [0, 1]\n"+
			"labels:      %v\npredictions: %v", ber, labels, predictions)
	}

	t.Logf("✓ BER bounded: %.6f ∈ [0, 1]", ber)
}

// AssertPermutationInvariant verifies BER is unchanged when labels and
// predictions are permuted by the same index permutation.
//
// Mathematical property:
//
//	BER(labels, preds) = BER(labels∘σ, preds∘σ) for any permutation σ
//
// perm must be a permutation of [0, len(labels)).
func AssertPermutationInvariant(t *testing.T, labels, predictions, perm []int) {
	t.Helper()

	if len(perm) != len(labels) {
		t.Fatalf("permutation length %d does not match sequence length %d",
			len(perm), len(labels))
	}

	original, err := BER(labels, predictions)
	if err != nil {
		t.Fatalf("BER failed on original order: %v", err)
	}

	permutedLabels := make([]int, len(labels))
	permutedPreds := make([]int, len(predictions))
	for i, p := range perm {
		permutedLabels[i] = labels[p]
		permutedPreds[i] = predictions[p]
	}

	permuted, err := BER(permutedLabels, permutedPreds)
	if err != nil {
		t.Fatalf("BER failed on permuted order: %v", err)
	}

	if original != permuted {
		t.Errorf("BER not permutation invariant: %.10f (original) vs %.10f (permuted)",
			original, permuted)
	}

	t.Logf("✓ Permutation invariant: BER = %.6f under σ of %d elements",
		original, len(perm))
}

// AssertBalancedPairs verifies every sample pair holds two evaluation
// sets of identical size 2·min_len (min_len case rows plus min_len
// control rows). Applies only to subsampled collections; a single-draw
// collection uses the full strata and carries their natural sizes.
func AssertBalancedPairs(t *testing.T, collection *SampleCollection) {
	t.Helper()

	if len(collection.Pairs) <= 1 {
		t.Fatalf("balanced sizing only holds for subsampled collections, got %d pair(s)",
			len(collection.Pairs))
	}

	want := 2 * collection.MinLen
	for i, pair := range collection.Pairs {
		if len(pair.Privileged) != want || len(pair.NonPrivileged) != want {
			t.Errorf("pair %d not balanced: privileged=%d, non-privileged=%d, expected %d (2·min_len)",
				i, len(pair.Privileged), len(pair.NonPrivileged), want)
		}
	}

	t.Logf("✓ Balanced pairs: %d pairs, each set %d rows (min_len=%d)",
		len(collection.Pairs), want, collection.MinLen)
}

// AssertReproducibleSampling verifies that building samples twice with
// the same sampler and dataset yields byte-identical collections.
func AssertReproducibleSampling(t *testing.T, ds Dataset, s *Sampler) {
	t.Helper()

	first, err := s.BuildSamples(ds)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, err := s.BuildSamples(ds)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("sampling not reproducible under seed %d: repeated builds differ", s.Seed)
	}

	t.Logf("✓ Reproducible: seed %d yields identical collections across builds", s.Seed)
}
