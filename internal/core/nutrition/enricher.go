package nutrition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshmeal-bot/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	errDisabled    = fmt.Errorf("%w: classifier not configured", common.ErrEnrichmentUnavailable)
	errNoItems     = fmt.Errorf("%w: no food names", common.ErrEnrichmentUnavailable)
	errEmptyResult = fmt.Errorf("%w: empty result", common.ErrEnrichmentUnavailable)
)

const systemPrompt = "Output only JSON."

// Completer 回傳嚴格 JSON 的文字生成服務
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Enricher 營養成分分析
type Enricher struct {
	completer Completer
}

// NewEnricher 創建營養分析服務；completer 為 nil 時所有呼叫都回傳 Unavailable
func NewEnricher(completer Completer) *Enricher {
	return &Enricher{completer: completer}
}

// Enabled 是否已設定分析服務
func (e *Enricher) Enabled() bool {
	return e != nil && e.completer != nil
}

// Enrich 以一次請求分析所有食物名稱。任何失敗都回傳 Unavailable，不重試。
func (e *Enricher) Enrich(ctx context.Context, names []string) Enrichment {
	if !e.Enabled() {
		return Unavailable(errDisabled)
	}

	names = uniqueNames(names)
	if len(names) == 0 {
		return Unavailable(errNoItems)
	}

	// 已送出的請求只受 client timeout 限制
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	content, err := e.completer.CompleteJSON(ctx, systemPrompt, buildPrompt(names))
	common.LogAICall(e.completer.Model(), len(names), time.Since(start), err)
	if err != nil {
		return Unavailable(fmt.Errorf("%w: %w", common.ErrEnrichmentUnavailable, err))
	}

	facts, err := parseFacts(content, names)
	if err != nil {
		common.LogWarn("營養分析結果解析失敗",
			zap.Error(err),
			zap.Int("content_length", len(content)),
		)
		return Unavailable(err)
	}

	if len(facts) < len(names) {
		common.LogDebug("營養分析結果缺少部分項目",
			zap.Int("requested", len(names)),
			zap.Int("received", len(facts)),
		)
	}

	return Enriched(facts)
}

// uniqueNames 去除空白與重複，保留第一次出現的順序
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func buildPrompt(names []string) string {
	return fmt.Sprintf(`You are a nutritionist. Analyze the nutrition for each item in the list below.
Menu List: [%s]

[Rules]
1. Return ONLY valid JSON.
2. Key = "Menu Name" (exact match from input), Value = Object with keys: "kcal", "carbs", "protein", "fat".
3. Values must be Integers (numbers only, no units like 'g' or 'kcal').
4. Do NOT miss any item. Every item in the list must be in the JSON.
5. If uncertain, estimate based on general Korean food data.

[Output Example]
{
    "Rice": {"kcal": 300, "carbs": 65, "protein": 6, "fat": 1},
    "Kimchi": {"kcal": 15, "carbs": 3, "protein": 1, "fat": 0}
}`, strings.Join(names, ", "))
}

// parseFacts 嚴格解析 JSON 物件，只保留要求的名稱；個別欄位無法解析時記為 0
func parseFacts(content string, names []string) (Map, error) {
	var raw map[string]any
	if err := common.ParseJSON(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEnrichmentUnavailable, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", common.ErrEnrichmentUnavailable)
	}

	byName := make(map[string]map[string]any, len(raw))
	for key, value := range raw {
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := byName[key]; !dup {
			byName[key] = obj
		}
	}

	facts := make(Map, len(names))
	for _, name := range names {
		obj, ok := byName[name]
		if !ok {
			continue
		}
		facts[name] = Facts{
			Kcal:    toInt(obj["kcal"]),
			Carbs:   toInt(obj["carbs"]),
			Protein: toInt(obj["protein"]),
			Fat:     toInt(obj["fat"]),
		}
	}
	return facts, nil
}

// toInt 容忍小數與十進位數字字串，其他情況與負數皆為 0
func toInt(v any) int {
	n, err := common.ToInt(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
