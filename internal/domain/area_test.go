package domain_test

import (
	"strings"
	"testing"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

var fool = domain.Card{Name: "愚者", Image: "fool.jpg", Keywords: []string{"新開始", "冒險", "信任直覺"}}

func TestParseTopicArea(t *testing.T) {
	cases := map[string]domain.TopicArea{
		"general":      domain.AreaGeneral,
		"love":         domain.AreaLove,
		" Career ":     domain.AreaCareer,
		"spirituality": domain.AreaSpirituality,
		"":             domain.AreaGeneral,
		"finance":      domain.AreaGeneral,
	}
	for raw, want := range cases {
		if got := domain.ParseTopicArea(raw); got != want {
			t.Errorf("ParseTopicArea(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestFallbackReading_Deterministic(t *testing.T) {
	for _, area := range domain.Areas {
		a := domain.FallbackReading(fool, area, "我該如何面對新工作？")
		b := domain.FallbackReading(fool, area, "我該如何面對新工作？")
		if a != b {
			t.Errorf("%s: fallback not deterministic", area)
		}
	}
}

func TestFallbackReading_ContainsInputs(t *testing.T) {
	question := "Will 100% of my plans work out?"
	for _, area := range domain.Areas {
		text := domain.FallbackReading(fool, area, question)
		if !strings.Contains(text, fool.Name) {
			t.Errorf("%s: missing card name", area)
		}
		for _, kw := range fool.Keywords {
			if !strings.Contains(text, kw) {
				t.Errorf("%s: missing keyword %q", area, kw)
			}
		}
		if !strings.Contains(text, question) {
			t.Errorf("%s: missing question", area)
		}
	}
}

func TestFallbackReading_UnknownAreaUsesGeneral(t *testing.T) {
	want := domain.FallbackReading(fool, domain.AreaGeneral, "q")
	for _, area := range []domain.TopicArea{"", "finance", "LOVE?"} {
		if got := domain.FallbackReading(fool, area, "q"); got != want {
			t.Errorf("area %q did not use the general template", area)
		}
	}
}

func TestFallbackReading_AreasDiffer(t *testing.T) {
	seen := make(map[string]domain.TopicArea)
	for _, area := range domain.Areas {
		text := domain.FallbackReading(fool, area, "q")
		if prev, ok := seen[text]; ok {
			t.Errorf("%s and %s share a template", prev, area)
		}
		seen[text] = area
	}
}

func TestTopicArea_Label(t *testing.T) {
	if got := domain.AreaCareer.Label(); got != "事業財富" {
		t.Errorf("career label: %s", got)
	}
	if got := domain.TopicArea("unknown").Label(); got != domain.AreaGeneral.Label() {
		t.Errorf("unknown label: %s", got)
	}
}
