package score

import (
	"math"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// ReasonSimulation 本地聚合结果使用的固定说明
const ReasonSimulation = "WebMCP simulation active."

// 结论阈值，作用于取整后的分数
const (
	InvestThreshold = 76
	WatchThreshold  = 56
)

// Outcome 聚合结果
type Outcome struct {
	Score   int
	Verdict model.Verdict
}

// Aggregate 三个领域分数的等权平均，缺失记 0，除数固定为 3
func Aggregate(fin, fnd, soc model.SignalReport) Outcome {
	sum := domainScore(fin, "score") +
		domainScore(fnd, "score", "reliability") +
		domainScore(soc, "score", "intensity")
	s := int(math.Floor(sum/3 + 0.5))
	return Outcome{Score: s, Verdict: Classify(s)}
}

// Classify 按阈值给出结论
func Classify(score int) model.Verdict {
	switch {
	case score >= InvestThreshold:
		return model.VerdictInvest
	case score >= WatchThreshold:
		return model.VerdictWatch
	default:
		return model.VerdictAvoid
	}
}

// domainScore 按 keys 顺序取第一个可用数值，并截断到 [0,100]
func domainScore(r model.SignalReport, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := r.Number(k); ok {
			return clamp(v)
		}
	}
	return 0
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
