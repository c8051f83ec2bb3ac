package main

import (
	"fmt"
	"io"
	"strings"

	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/core/card"
	"freshmeal-bot/internal/core/nutrition"
)

// writeDay 以純文字輸出單日菜單，版面對應菜單卡片
func writeDay(w io.Writer, r cafeteria.DayReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 %s 식단\n", r.Date)
	for i, item := range r.Items {
		var summary nutrition.Summary
		if i < len(r.Nutrition.Items) {
			summary = r.Nutrition.Items[i]
		}

		fmt.Fprintf(&b, "\n[%s] %s\n", item.Corner, item.Main)
		if r.Nutrition.HasData {
			fmt.Fprintf(&b, "  Total: %s\n", card.FormatFacts(summary.Total))
		}

		for _, side := range summary.Sides {
			fmt.Fprintf(&b, "  • %s\n", side.Side.Title)
			if r.Nutrition.HasData && side.Known {
				fmt.Fprintf(&b, "     %s\n", card.FormatFacts(side.Facts))
			}
			if side.Side.Description != "" {
				fmt.Fprintf(&b, "     └ %s\n", side.Side.Description)
			}
		}
	}

	if r.Nutrition.HasData && len(r.Items) > 1 {
		fmt.Fprintf(&b, "\nDay total: %s\n", card.FormatFacts(r.Nutrition.Total))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeAnalysis 依輸入順序輸出分析結果
func writeAnalysis(w io.Writer, names []string, e nutrition.Enrichment) error {
	var b strings.Builder

	if !e.Available() {
		b.WriteString("영양 정보를 가져오지 못했습니다.\n")
	} else {
		for _, name := range names {
			facts, ok := e.Lookup(name)
			if !ok {
				fmt.Fprintf(&b, "%s: -\n", strings.TrimSpace(name))
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", strings.TrimSpace(name), card.FormatFacts(facts))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
