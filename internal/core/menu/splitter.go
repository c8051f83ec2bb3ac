package menu

import "strings"

// SplitMenu 以逗號拆分配菜文字，括號內的逗號不視為分隔。
// 括號不成對時深度可能不再回到 0，剩餘內容會留在同一段。
func SplitMenu(text string) []string {
	var (
		items []string
		buf   strings.Builder
		depth int
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			items = append(items, s)
		}
		buf.Reset()
	}

	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}

		if r == ',' && depth == 0 {
			flush()
			continue
		}
		buf.WriteRune(r)
	}
	flush()

	return items
}

// ParseSides 拆分配菜並以第一個 '|' 分出名稱與說明
func ParseSides(text string) []SideEntry {
	parts := SplitMenu(text)
	if len(parts) == 0 {
		return nil
	}

	sides := make([]SideEntry, 0, len(parts))
	for _, part := range parts {
		title, desc, _ := strings.Cut(part, "|")
		sides = append(sides, SideEntry{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(desc),
		})
	}
	return sides
}
