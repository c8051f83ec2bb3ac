package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMenu(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma inside parens first", "A(1,2), B", []string{"A(1,2)", "B"}},
		{"comma inside parens last", "A, B(1, 2)", []string{"A", "B(1, 2)"}},
		{"nested parens", "밥(쌀(국산, 유기농), 보리), 김치", []string{"밥(쌀(국산, 유기농), 보리)", "김치"}},
		{"empty segments dropped", " , A,, ,B , ", []string{"A", "B"}},
		{"unbalanced keeps tail together", "A(1, B, C", []string{"A(1, B, C"}},
		{"stray close paren", "A), B, C", []string{"A), B, C"}},
		{"pipe is not a separator", "나물|국내산, 두부", []string{"나물|국내산", "두부"}},
		{"empty", "", nil},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMenu(tt.in))
		})
	}
}

func TestSplitMenu_RoundTrip(t *testing.T) {
	inputs := []string{
		"A",
		"A,B,C",
		"  A(1,2),B(3,(4,5)),C  ",
		"잡곡밥,된장국(두부,애호박),김치",
		"x|desc,y(a,b)|more",
	}

	for _, in := range inputs {
		got := SplitMenu(in)
		assert.Equal(t, strings.TrimSpace(in), strings.Join(got, ","), "input %q", in)
	}
}

func TestSplitMenu_Idempotent(t *testing.T) {
	in := "A(1,2), B, C(3)"
	first := SplitMenu(in)
	for _, seg := range first {
		assert.Equal(t, []string{seg}, SplitMenu(seg))
	}
}

func TestParseSides(t *testing.T) {
	sides := ParseSides("배추김치|국내산, 계란찜, 샐러드(오리엔탈, 참깨)|소스 선택|추가")

	assert.Equal(t, []SideEntry{
		{Title: "배추김치", Description: "국내산"},
		{Title: "계란찜"},
		{Title: "샐러드(오리엔탈, 참깨)", Description: "소스 선택|추가"},
	}, sides)

	assert.Nil(t, ParseSides(""))
}
