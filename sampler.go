package fairbench

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// DrawPoolFloor is the lower bound of the draw-index pool. Draw indices
// are taken without replacement from the half-open range
// [DrawPoolFloor, seed), so the seed must exceed DrawPoolFloor plus the
// number of requested samples for the draw to be possible.
const DrawPoolFloor = 10

// Sampler partitions a Dataset into per-group case and control strata and
// draws reproducible, equal-size balanced resamples from them.
//
// Group ordering is semantically significant: Privileged is the cohort the
// audit treats as the baseline, NonPrivileged is the cohort compared
// against it. The ordering is preserved through every downstream
// computation.
type Sampler struct {
	Privileged    string // group value designated as the privileged cohort
	NonPrivileged string // group value compared against it
	SampleCount   int    // number of balanced resamples, at least 1
	Seed          int    // upper bound of the draw-index pool and top-level seed

	// Source builds the pseudo-random source for a given seed. Each draw
	// index seeds its own independent source, so identical draw indices
	// yield identical sampled rows. Injectable for deterministic tests;
	// nil selects a PCG source.
	Source func(seed uint64) rand.Source
}

// NewSampler returns a Sampler with the default PCG random source.
func NewSampler(privileged, nonPrivileged string, sampleCount, seed int) *Sampler {
	return &Sampler{
		Privileged:    privileged,
		NonPrivileged: nonPrivileged,
		SampleCount:   sampleCount,
		Seed:          seed,
		Source:        defaultSource,
	}
}

func defaultSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// SamplePair is one balanced draw: a per-group evaluation set for each of
// the two cohorts, case rows first, control rows second. The two sets
// have identical size whenever subsampling was performed.
type SamplePair struct {
	Privileged    []Record
	NonPrivileged []Record
}

// SampleCollection is the ordered output of BuildSamples.
type SampleCollection struct {
	Pairs  []SamplePair
	MinLen int  // common per-stratum sample size
	Forced bool // true when an empty stratum collapsed the draw count to 1
}

// Validate checks the sampler parameters that do not depend on the data.
func (s *Sampler) Validate() error {
	if s.Privileged == "" || s.NonPrivileged == "" {
		return fmt.Errorf("%w: both group values must be non-empty", ErrInvalidConfiguration)
	}
	if s.Privileged == s.NonPrivileged {
		return fmt.Errorf("%w: group values must be distinct, got %q twice",
			ErrInvalidConfiguration, s.Privileged)
	}
	if s.SampleCount < 1 {
		return fmt.Errorf("%w: sample count must be at least 1, got %d",
			ErrInvalidConfiguration, s.SampleCount)
	}
	return nil
}

// BuildSamples partitions ds into the four (group, label) strata and draws
// SampleCount balanced resamples.
//
// Algorithm:
//
//  1. Filter ds into case (label=1) and control (label=0) strata per
//     group. An empty stratum is a warning, not an error.
//  2. min_len is the smallest stratum size. If min_len is 0, equal-size
//     balancing is impossible and the draw count collapses to 1.
//  3. Draw SampleCount distinct draw indices from [DrawPoolFloor, Seed).
//  4. Per draw index: sample min_len rows without replacement from each
//     stratum, seeding an independent source with the draw index, then
//     concatenate case rows and control rows per group. With a single
//     draw the full strata are used verbatim, no subsetting.
//
// Determinism: the same dataset and seed always produce an identical
// collection, and an identical draw index always selects identical rows.
// Original row order within a stratum is preserved in every sample.
func (s *Sampler) BuildSamples(ds Dataset) (*SampleCollection, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrInvalidInput)
	}

	// Stratum order: privileged-case, privileged-control,
	// non-privileged-case, non-privileged-control.
	groups := [2]string{s.Privileged, s.NonPrivileged}
	var strata [4][]Record
	minLen := len(ds)
	for gi, group := range groups {
		for li, label := range [2]int{1, 0} {
			stratum := filterRecords(ds, group, label)
			strata[gi*2+li] = stratum
			if len(stratum) == 0 {
				slog.Warn("group stratum is empty, defaulting sample count to 1",
					"group", group, "stratum", stratumName(label))
			}
			if len(stratum) < minLen {
				minLen = len(stratum)
			}
		}
	}

	count := s.SampleCount
	if minLen == 0 {
		count = 1
	}

	if s.Seed <= DrawPoolFloor+count {
		return nil, fmt.Errorf(
			"%w: cannot draw %d distinct indices from [%d, %d)\n"+
				"  the random seed bounds the draw-index pool\n"+
				"  required: seed > %d + sample count\n"+
				"  got: seed=%d, sample count=%d",
			ErrInvalidConfiguration, count, DrawPoolFloor, s.Seed,
			DrawPoolFloor, s.Seed, count)
	}

	newSource := s.Source
	if newSource == nil {
		newSource = defaultSource
	}

	// The draw-index pool: count distinct integers from [DrawPoolFloor, Seed).
	draws := make([]int, count)
	sampleuv.WithoutReplacement(draws, s.Seed-DrawPoolFloor, newSource(uint64(s.Seed)))
	for i := range draws {
		draws[i] += DrawPoolFloor
	}

	collection := &SampleCollection{
		Pairs:  make([]SamplePair, 0, count),
		MinLen: minLen,
		Forced: count != s.SampleCount,
	}
	for _, draw := range draws {
		var sets [4][]Record
		for i, stratum := range strata {
			if count > 1 {
				sets[i] = sampleRows(stratum, minLen, newSource(uint64(draw)))
			} else {
				// Single draw: the full strata stand in for a sample.
				sets[i] = stratum
			}
		}
		collection.Pairs = append(collection.Pairs, SamplePair{
			Privileged:    concatRows(sets[0], sets[1]),
			NonPrivileged: concatRows(sets[2], sets[3]),
		})
	}
	return collection, nil
}

// filterRecords returns the ordered subset of ds matching group and label.
func filterRecords(ds Dataset, group string, label int) []Record {
	var out []Record
	for _, r := range ds {
		if r.Group == group && r.Label == label {
			out = append(out, r)
		}
	}
	return out
}

func stratumName(label int) string {
	if label == 1 {
		return "case"
	}
	return "control"
}

// sampleRows selects n rows from stratum without replacement. Selected
// indices are sorted so the original per-row order survives sampling.
func sampleRows(stratum []Record, n int, src rand.Source) []Record {
	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, len(stratum), src)
	sort.Ints(idxs)

	out := make([]Record, n)
	for i, idx := range idxs {
		out[i] = stratum[idx]
	}
	return out
}

// concatRows builds one evaluation set, case rows then control rows.
func concatRows(caseRows, controlRows []Record) []Record {
	out := make([]Record, 0, len(caseRows)+len(controlRows))
	out = append(out, caseRows...)
	return append(out, controlRows...)
}
