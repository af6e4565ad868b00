package app

import (
	"fmt"
	"strings"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/ports"
)

const systemPrompt = `你是一位專業、智慧且充滿洞察力的塔羅占卜師。你擁有深厚的塔羅知識和豐富的人生智慧，能夠為來訪者提供溫暖、實用且具有啟發性的指引。
請用溫暖、專業且易懂的語言進行解讀，避免過於神秘或模糊的表達。重點是提供實用的建議和積極的指引。`

const userInstructions = `請為以下塔羅占卜提供深入而有意義的解讀，包含以下要素：
1. **牌卡核心含義**：這張牌在當前情況下的主要象徵意義
2. **針對性指引**：針對提問者的具體問題給出的建議和洞察
3. **行動建議**：實際可行的行動方向或需要注意的事項
4. **正面展望**：鼓勵性的訊息和未來的可能性

請用親切、專業的語調，字數控制在 200-300 字之間。重點是幫助提問者獲得清晰的指引和內心的平靜。
`

// Field markers. The question is always the last field and runs to the end of
// the prompt, so it survives verbatim even when it spans lines.
const (
	fieldCard     = "【抽到的牌卡】："
	fieldKeywords = "【牌卡關鍵詞】："
	fieldArea     = "【占卜領域】："
	fieldQuestion = "【具體問題】："
)

// BuildPrompt interpolates a draw into the system and user prompts.
func BuildPrompt(card domain.Card, area domain.TopicArea, question string) ports.CompletionRequest {
	var b strings.Builder
	b.WriteString(userInstructions)
	fmt.Fprintf(&b, "\n%s%s\n", fieldCard, card.Name)
	fmt.Fprintf(&b, "%s%s\n", fieldKeywords, strings.Join(card.Keywords, domain.KeywordSeparator))
	fmt.Fprintf(&b, "%s%s\n", fieldArea, area.Label())
	fmt.Fprintf(&b, "%s%s", fieldQuestion, question)

	return ports.CompletionRequest{System: systemPrompt, User: b.String()}
}

// PromptFields are the draw details recovered from a user prompt.
type PromptFields struct {
	Card      string
	Keywords  []string
	AreaLabel string
	Question  string
}

// ParsePrompt reverses BuildPrompt for the user prompt.
func ParsePrompt(user string) (PromptFields, error) {
	qi := strings.Index(user, "\n"+fieldQuestion)
	if qi < 0 {
		return PromptFields{}, fmt.Errorf("prompt has no question field")
	}
	head, question := user[:qi], user[qi+1+len(fieldQuestion):]

	var f PromptFields
	f.Question = question
	for _, line := range strings.Split(head, "\n") {
		switch {
		case strings.HasPrefix(line, fieldCard):
			f.Card = strings.TrimPrefix(line, fieldCard)
		case strings.HasPrefix(line, fieldKeywords):
			f.Keywords = strings.Split(strings.TrimPrefix(line, fieldKeywords), domain.KeywordSeparator)
		case strings.HasPrefix(line, fieldArea):
			f.AreaLabel = strings.TrimPrefix(line, fieldArea)
		}
	}
	if f.Card == "" {
		return PromptFields{}, fmt.Errorf("prompt has no card field")
	}
	return f, nil
}
