package models

import "math"

// QuotaInfo is the file-count quota of the account. A nil or negative Limit
// means unlimited.
type QuotaInfo struct {
	Used  int64  `json:"used"`
	Limit *int64 `json:"limit"`
}

func (q QuotaInfo) Unlimited() bool {
	return q.Limit == nil || *q.Limit < 0
}

// PercentUsed returns the rounded usage percentage capped at 100. The second
// result is false when no meaningful percentage exists (unlimited or a zero
// limit).
func (q QuotaInfo) PercentUsed() (int, bool) {
	if q.Unlimited() || *q.Limit == 0 {
		return 0, false
	}
	p := int(math.Floor(float64(q.Used)/float64(*q.Limit)*100 + 0.5))
	if p > 100 {
		p = 100
	}
	return p, true
}
