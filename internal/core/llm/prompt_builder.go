package llm

import (
	"fmt"
	"strings"
)

// Knowledge is everything the bot knows about one domain
type Knowledge struct {
	BusinessName    string
	WelcomeMessage  string
	HelpDesk        []QA
	Products        []ProductInfo
	FilterQuestions []string
}

type QA struct {
	Question string
	Answer   string
}

type ProductInfo struct {
	Name  string
	Price float64
}

// BuildSystemPrompt assembles the system prompt from a domain's knowledge
func BuildSystemPrompt(kb *Knowledge) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are the virtual sales assistant for %s.\n", kb.BusinessName))
	if kb.WelcomeMessage != "" {
		sb.WriteString(fmt.Sprintf("The visitor was greeted with: %q\n", kb.WelcomeMessage))
	}
	sb.WriteString("\n")

	if len(kb.HelpDesk) > 0 {
		sb.WriteString("=== FREQUENT QUESTIONS ===\n")
		for _, qa := range kb.HelpDesk {
			sb.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", qa.Question, qa.Answer))
		}
	}

	if len(kb.Products) > 0 {
		sb.WriteString("=== PRODUCT CATALOG ===\n")
		for _, prod := range kb.Products {
			sb.WriteString(fmt.Sprintf("- %s: $%.2f\n", prod.Name, prod.Price))
		}
		sb.WriteString("\n")
	}

	if len(kb.FilterQuestions) > 0 {
		sb.WriteString("=== QUALIFICATION QUESTIONS ===\n")
		sb.WriteString("Work these questions naturally into the conversation, one at a time:\n")
		for _, q := range kb.FilterQuestions {
			sb.WriteString(fmt.Sprintf("- %s\n", q))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Instructions:\n")
	sb.WriteString("- Answer warmly and professionally\n")
	sb.WriteString("- Use only the information above to answer questions\n")
	sb.WriteString("- If you do not know, say so honestly\n")
	sb.WriteString("- Never invent information\n")

	return sb.String()
}
