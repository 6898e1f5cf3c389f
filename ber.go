package fairbench

import (
	"fmt"
	"log/slog"
)

// ConfusionCounts builds the 2x2 confusion matrix over two equal-length
// binary sequences and returns the four cell counts.
//
// Layout (labels are ground truth, predictions are model output):
//
//	              pred=0   pred=1
//	label=0         TN       FP
//	label=1         FN       TP
//
// ConfusionCounts is a pure function with no dependency on how the
// sequences were produced. Empty, mismatched, or non-binary input fails
// fast with ErrInvalidInput instead of producing a corrupted matrix.
func ConfusionCounts(labels, predictions []int) (tn, fp, fn, tp int, err error) {
	if len(labels) == 0 {
		err = fmt.Errorf("%w: empty label sequence", ErrInvalidInput)
		return
	}
	if len(labels) != len(predictions) {
		err = fmt.Errorf("%w: %d labels vs %d predictions",
			ErrInvalidInput, len(labels), len(predictions))
		return
	}

	for i, label := range labels {
		pred := predictions[i]
		if (label != 0 && label != 1) || (pred != 0 && pred != 1) {
			err = fmt.Errorf("%w: non-binary value at index %d (label=%d, prediction=%d)",
				ErrInvalidInput, i, label, pred)
			return
		}
		switch {
		case label == 0 && pred == 0:
			tn++
		case label == 0 && pred == 1:
			fp++
		case label == 1 && pred == 0:
			fn++
		default:
			tp++
		}
	}
	return
}

// BER computes the Balanced Error Rate over two equal-length binary
// sequences:
//
//	BER = (FPR + FNR) / 2
//	FPR = FP / (FP + TN)    false positive rate
//	FNR = FN / (FN + TP)    false negative rate
//
// Averaging the two error rates makes the metric robust to class
// imbalance: a classifier cannot hide a bad minority-class error rate
// behind a large majority class.
//
// If the sequence has no negatives (FP+TN == 0) or no positives
// (FN+TP == 0) the error rates are undefined. BER then logs a warning
// and returns the sentinel 0.0. The sentinel is indistinguishable from a
// genuinely perfect classifier, so callers must treat a zero BER as a
// caveat rather than a clean result.
func BER(labels, predictions []int) (float64, error) {
	tn, fp, fn, tp, err := ConfusionCounts(labels, predictions)
	if err != nil {
		return 0, err
	}

	if fp+tn == 0 || fn+tp == 0 {
		slog.Warn("BER invalid due to small sample size",
			"negatives", fp+tn, "positives", fn+tp)
		return 0.0, nil
	}

	fpr := float64(fp) / float64(fp+tn)
	fnr := float64(fn) / float64(fn+tp)
	return (fpr + fnr) / 2, nil
}
