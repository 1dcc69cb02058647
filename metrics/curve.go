// Package metrics は精度-再現率曲線の要約指標を提供します。
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"

	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

// sortedByRecall は再現率の昇順に並べ替えた点列を返す。
// 同じ再現率の点はファイル上の順序を保つ。
func sortedByRecall(c *curve.Curve) (recall, precision []float64) {
	n := c.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r, p := c.Recall(), c.Precision()
	sort.SliceStable(idx, func(a, b int) bool { return r[idx[a]] < r[idx[b]] })

	recall = make([]float64, n)
	precision = make([]float64, n)
	for i, j := range idx {
		recall[i], precision[i] = r[j], p[j]
	}
	return recall, precision
}

// checkCurve は入力検証を行う
func checkCurve(name string, c *curve.Curve, minPoints int) error {
	if c == nil || c.Len() < minPoints {
		n := 0
		if c != nil {
			n = c.Len()
		}
		return errors.NewValidationError(name, "not enough points", n)
	}
	if err := errors.CheckFinite(name, curve.ColumnRecall, c.Recall()); err != nil {
		return err
	}
	return errors.CheckFinite(name, curve.ColumnPrecision, c.Precision())
}

// AUC は曲線下面積（台形則）を計算する。点は再現率の昇順に並べ替えてから積分する。
func AUC(c *curve.Curve) (float64, error) {
	if err := checkCurve("AUC", c, 2); err != nil {
		return 0, err
	}
	recall, precision := sortedByRecall(c)
	return integrate.Trapezoidal(recall, precision), nil
}

// AveragePrecision は平均適合率を計算する
// AP = Σ (R_n - R_{n-1}) * P_n, R_0 = 0
func AveragePrecision(c *curve.Curve) (float64, error) {
	if err := checkCurve("AveragePrecision", c, 1); err != nil {
		return 0, err
	}
	recall, precision := sortedByRecall(c)

	var ap, prev float64
	for i := range recall {
		ap += (recall[i] - prev) * precision[i]
		prev = recall[i]
	}
	return ap, nil
}
