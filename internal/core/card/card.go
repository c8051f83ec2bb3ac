package card

import (
	"fmt"

	"freshmeal-bot/internal/core/menu"
	"freshmeal-bot/internal/core/nutrition"
)

const (
	schemaURL   = "http://adaptivecards.io/schemas/adaptive-card.json"
	version     = "1.4"
	contentType = "application/vnd.microsoft.card.adaptive"
)

// 使用者動作
const (
	ActionTodayMenu  = "today_menu"
	ActionWeekMenu   = "week_menu"
	ActionWeekMenuAI = "week_menu_ai"
)

// Element Adaptive Card 元素
type Element map[string]any

// Card Adaptive Card
type Card struct {
	Type    string    `json:"type"`
	Schema  string    `json:"$schema"`
	Version string    `json:"version"`
	Body    []Element `json:"body"`
	Actions []Element `json:"actions,omitempty"`
}

// Attachment 聊天訊息附件
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     Card   `json:"content"`
}

// Attach 包成附件
func Attach(c Card) Attachment {
	return Attachment{ContentType: contentType, Content: c}
}

func newCard(body []Element) Card {
	return Card{
		Type:    "AdaptiveCard",
		Schema:  schemaURL,
		Version: version,
		Body:    body,
	}
}

// FormatFacts 營養成分顯示文字
func FormatFacts(f nutrition.Facts) string {
	return fmt.Sprintf("🔥 %dkcal | 🍚 탄:%dg | 🥚 단:%dg | 🧀 지:%dg", f.Kcal, f.Carbs, f.Protein, f.Fat)
}

func textBlock(text string, attrs Element) Element {
	el := Element{"type": "TextBlock", "text": text}
	for k, v := range attrs {
		el[k] = v
	}
	return el
}

// DailyMenu 單日菜單卡片。day.HasData 為 false 時不顯示任何營養資訊。
func DailyMenu(dateKey string, items []menu.MenuItem, day nutrition.DaySummary) Card {
	body := []Element{
		textBlock(fmt.Sprintf("📅 %s 식단", dateKey), Element{
			"weight": "Bolder", "size": "Large", "color": "Accent",
		}),
	}

	for idx, item := range items {
		var summary nutrition.Summary
		if idx < len(day.Items) {
			summary = day.Items[idx]
		}

		if idx > 0 {
			body = append(body, Element{
				"type": "Container", "style": "emphasis", "height": "1px", "bleed": true, "spacing": "Small",
			})
		}

		body = append(body, textBlock(item.Corner, Element{
			"weight": "Bolder", "size": "Medium", "spacing": "Medium", "color": "Dark",
		}))

		var columns []Element
		if item.ImageURL != "" {
			columns = append(columns, Element{
				"type":  "Column",
				"width": "auto",
				"items": []Element{{"type": "Image", "url": item.ImageURL, "size": "Small", "style": "Person"}},
			})
		}

		columns = append(columns, Element{
			"type":                     "Column",
			"width":                    "stretch",
			"items":                    itemBlocks(item, summary, day.HasData),
			"verticalContentAlignment": "Center",
		})

		body = append(body, Element{"type": "ColumnSet", "columns": columns, "spacing": "Small"})
	}

	return newCard(body)
}

func itemBlocks(item menu.MenuItem, summary nutrition.Summary, hasData bool) []Element {
	blocks := []Element{
		textBlock(item.Main, Element{"weight": "Bolder", "wrap": true, "size": "Default"}),
	}

	if hasData {
		blocks = append(blocks, textBlock("Total: "+FormatFacts(summary.Total), Element{
			"wrap": true, "size": "Small", "color": "Attention", "weight": "Bolder", "spacing": "None",
		}))
	}

	sides := summary.Sides
	if len(sides) == 0 {
		for _, side := range item.Sides() {
			sides = append(sides, nutrition.SideFacts{Side: side})
		}
	}

	for _, side := range sides {
		blocks = append(blocks, textBlock("• "+side.Side.Title, Element{
			"isSubtle": true, "wrap": true, "size": "Small", "spacing": "Small",
		}))
		if hasData && side.Known {
			blocks = append(blocks, textBlock("   "+FormatFacts(side.Facts), Element{
				"wrap": true, "size": "Small", "color": "Good", "spacing": "None",
			}))
		}
		if side.Side.Description != "" {
			blocks = append(blocks, textBlock("   └ "+side.Side.Description, Element{
				"isSubtle": true, "wrap": true, "size": "Small", "spacing": "None",
			}))
		}
	}

	return blocks
}

// Selection 動作選單卡片
func Selection() Card {
	c := newCard([]Element{
		textBlock("🍱 프레시밀 & AI 영양사", Element{"weight": "Bolder", "size": "Medium"}),
		textBlock("원하시는 메뉴를 선택해주세요.", Element{"wrap": true}),
	})
	c.Actions = []Element{
		submit("🍚 오늘 식단 + AI 분석", ActionTodayMenu),
		submit("📅 주간 전체 보기 (빠름)", ActionWeekMenu),
		submit("🤖 주간 식단 + AI 분석 (느림)", ActionWeekMenuAI),
	}
	return c
}

func submit(title, action string) Element {
	return Element{"type": "Action.Submit", "title": title, "data": map[string]string{"action": action}}
}
