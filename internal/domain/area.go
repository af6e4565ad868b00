package domain

import (
	"fmt"
	"strings"
)

// TopicArea is the life area a question is about.
type TopicArea string

const (
	AreaGeneral      TopicArea = "general"
	AreaLove         TopicArea = "love"
	AreaCareer       TopicArea = "career"
	AreaSpirituality TopicArea = "spirituality"
)

// Areas lists every topic area in display order.
var Areas = []TopicArea{AreaGeneral, AreaLove, AreaCareer, AreaSpirituality}

// ParseTopicArea maps raw input to a known area. Anything unrecognised,
// including the empty string, resolves to AreaGeneral.
func ParseTopicArea(raw string) TopicArea {
	switch TopicArea(strings.ToLower(strings.TrimSpace(raw))) {
	case AreaLove:
		return AreaLove
	case AreaCareer:
		return AreaCareer
	case AreaSpirituality:
		return AreaSpirituality
	default:
		return AreaGeneral
	}
}

// Label is the user-facing name of the area.
func (a TopicArea) Label() string {
	switch a {
	case AreaLove:
		return "愛情關係"
	case AreaCareer:
		return "事業財富"
	case AreaSpirituality:
		return "靈性成長"
	default:
		return "整體指引"
	}
}

// Fallback templates take, in order: card name, joined keywords, question,
// card name.
const (
	generalTemplate = "%s為您帶來%s的訊息。針對您的問題「%s」，這張牌提醒您要相信內在的智慧，勇敢面對當前的挑戰和機會。" +
		"%s象徵著轉變和成長的時期，建議您保持開放的心態，聆聽內心的聲音。記住，您擁有改變現狀的能力，相信自己的直覺，一切都會朝好的方向發展。"
	loveTemplate = "在感情的課題上，%s為您帶來%s的訊息。關於您的問題「%s」，這張牌邀請您先誠實面對自己真正的需要，再以溫柔而清楚的方式與對方溝通。" +
		"%s提醒您，健康的關係建立在彼此尊重與信任之上，給感情一些空間與耐心，真心會引導您走向更和諧的連結。"
	careerTemplate = "在事業與財富方面，%s為您帶來%s的訊息。針對您的問題「%s」，這張牌建議您盤點手上的資源與能力，為下一步設定具體而可行的目標。" +
		"%s提醒您，穩健的行動比等待完美時機更重要，持續累積經驗與人脈，機會會在您準備好的時候出現。"
	spiritualityTemplate = "在靈性成長的旅程中，%s為您帶來%s的訊息。對於您的問題「%s」，這張牌鼓勵您放慢腳步，透過靜心、書寫或獨處與內在的自己對話。" +
		"%s提醒您，每一段經歷都是成長的養分，當您接納當下的自己，內心的指引就會愈來愈清晰。"
)

func (a TopicArea) fallbackTemplate() string {
	switch a {
	case AreaLove:
		return loveTemplate
	case AreaCareer:
		return careerTemplate
	case AreaSpirituality:
		return spiritualityTemplate
	default:
		return generalTemplate
	}
}

// KeywordSeparator joins card keywords in prompts and fallback readings.
const KeywordSeparator = ", "

// FallbackReading renders the deterministic reading used when the provider is
// unavailable. It is a pure function of its inputs.
func FallbackReading(card Card, area TopicArea, question string) string {
	keywords := strings.Join(card.Keywords, KeywordSeparator)
	return fmt.Sprintf(area.fallbackTemplate(), card.Name, keywords, question, card.Name)
}
