package nutrition

import (
	"encoding/json"
	"strings"
)

// Facts 單一食物的估計營養成分
type Facts struct {
	Kcal    int `json:"kcal"`
	Carbs   int `json:"carbs"`
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
}

// Add 逐欄位相加
func (f Facts) Add(o Facts) Facts {
	return Facts{
		Kcal:    f.Kcal + o.Kcal,
		Carbs:   f.Carbs + o.Carbs,
		Protein: f.Protein + o.Protein,
		Fat:     f.Fat + o.Fat,
	}
}

// Map 食物名稱 -> 營養成分
type Map map[string]Facts

// Enrichment 營養分析結果：有資料（Enriched）或無法取得（Unavailable）。
// 「沒有資料」與「資料為 0」靠 Available 區分，不看數值。
type Enrichment struct {
	facts  Map
	reason error
}

// Enriched 以分析結果建立 Enrichment，空 map 視同無法取得
func Enriched(facts Map) Enrichment {
	if len(facts) == 0 {
		return Enrichment{reason: errEmptyResult}
	}
	return Enrichment{facts: facts}
}

// Unavailable 建立無法取得的 Enrichment
func Unavailable(reason error) Enrichment {
	return Enrichment{reason: reason}
}

// Available 是否有可用的營養資料
func (e Enrichment) Available() bool {
	return len(e.facts) > 0
}

// Facts 分析結果，無資料時為 nil
func (e Enrichment) Facts() Map {
	return e.facts
}

// Reason 無法取得的原因
func (e Enrichment) Reason() error {
	return e.reason
}

// Lookup 以去除前後空白的名稱查詢；查不到時回傳零值與 false
func (e Enrichment) Lookup(name string) (Facts, bool) {
	f, ok := e.facts[strings.TrimSpace(name)]
	return f, ok
}

// MarshalJSON API 輸出格式
func (e Enrichment) MarshalJSON() ([]byte, error) {
	facts := e.facts
	if facts == nil {
		facts = Map{}
	}
	return json.Marshal(struct {
		Available bool `json:"available"`
		Facts     Map  `json:"facts"`
	}{
		Available: e.Available(),
		Facts:     facts,
	})
}
