package model

// 売上の分析結果。Fallback は生成に失敗して固定文を返したとき true。
type Insight struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
	Fallback bool     `json:"fallback"`
}

// FallbackInsight は生成できなかったときの固定文。
func FallbackInsight() Insight {
	return Insight{
		Summary:  "Could not generate insights at this time.",
		Insights: []string{"Please check your internet connection or API key."},
		Fallback: true,
	}
}
