package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Verdict 投资结论
type Verdict string

const (
	VerdictInvest Verdict = "INVEST"
	VerdictWatch  Verdict = "WATCH"
	VerdictAvoid  Verdict = "AVOID"
)

var verdictLabels = map[Verdict]string{
	VerdictInvest: "INVESTIR",
	VerdictWatch:  "OBSERVER",
	VerdictAvoid:  "FUIR",
}

// Label 返回界面展示用的标签，未知结论原样返回
func (v Verdict) Label() string {
	if l, ok := verdictLabels[v]; ok {
		return l
	}
	return string(v)
}

// ParseVerdict 同时接受枚举值和展示标签，未知值原样保留
func ParseVerdict(s string) Verdict {
	up := strings.ToUpper(strings.TrimSpace(s))
	for v, l := range verdictLabels {
		if up == string(v) || up == l {
			return v
		}
	}
	return Verdict(s)
}

// UnmarshalJSON 兼容后端返回的展示标签
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = ParseVerdict(s)
	return nil
}

// ExecutionMode 执行模式
type ExecutionMode string

const (
	ModeBackend    ExecutionMode = "backend"
	ModeSimulation ExecutionMode = "simulation"
)

// ParseMode 未识别的值一律视为 backend
func ParseMode(s string) ExecutionMode {
	if ExecutionMode(s) == ModeSimulation {
		return ModeSimulation
	}
	return ModeBackend
}

// Valid 是否为两个合法取值之一
func (m ExecutionMode) Valid() bool {
	return m == ModeBackend || m == ModeSimulation
}

// 信号来源标记
const (
	SourceBackend   = "backend"
	SourceSimulated = "sim"
	SourceToolSim   = "webmcp-sim"
)

// SignalReport 单个领域（财务/创始人/舆情）的分析快照
type SignalReport map[string]any

// NewSignalReport 复制输入，构造不可变快照
func NewSignalReport(m map[string]any) SignalReport {
	r := make(SignalReport, len(m))
	for k, v := range m {
		r[k] = v
	}
	return r
}

// Number 读取数值字段，缺失、NaN 或非数值返回 false
func (r SignalReport) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String 读取字符串字段
func (r SignalReport) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Source 来源标记
func (r SignalReport) Source() string {
	return r.String("source")
}

// AnalysisResult 一次分析的最终结果，构造后不再修改
type AnalysisResult struct {
	Entity       string       `json:"entity"`
	Score        int          `json:"score"`
	Verdict      Verdict      `json:"verdict"`
	Reason       string       `json:"reason"`
	Financials   SignalReport `json:"financials"`
	Founders     SignalReport `json:"founders"`
	Social       SignalReport `json:"social"`
	Mode         string       `json:"mode,omitempty"`
	Timestamp    string       `json:"timestamp,omitempty"`
	TelegramSent bool         `json:"telegram_sent,omitempty"`
}

// Clone 返回独立副本，信号快照同样复制
func (r AnalysisResult) Clone() *AnalysisResult {
	out := r
	if r.Financials != nil {
		out.Financials = NewSignalReport(r.Financials)
	}
	if r.Founders != nil {
		out.Founders = NewSignalReport(r.Founders)
	}
	if r.Social != nil {
		out.Social = NewSignalReport(r.Social)
	}
	return &out
}
