package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	kb := &Knowledge{
		BusinessName:   "Acme Dental",
		WelcomeMessage: "Hey there, have a question?",
		HelpDesk: []QA{
			{Question: "Do you take insurance?", Answer: "Yes, most major plans."},
		},
		Products: []ProductInfo{
			{Name: "Whitening Kit", Price: 49.99},
		},
		FilterQuestions: []string{"What brings you in today?"},
	}

	prompt := BuildSystemPrompt(kb)

	require.Contains(t, prompt, "Acme Dental")
	require.Contains(t, prompt, "Do you take insurance?")
	require.Contains(t, prompt, "Whitening Kit: $49.99")
	require.Contains(t, prompt, "What brings you in today?")
	require.Contains(t, prompt, "Never invent information")
}

func TestBuildSystemPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildSystemPrompt(&Knowledge{BusinessName: "Bare Co"})

	require.Contains(t, prompt, "Bare Co")
	require.NotContains(t, prompt, "FREQUENT QUESTIONS")
	require.NotContains(t, prompt, "PRODUCT CATALOG")
	require.NotContains(t, prompt, "QUALIFICATION QUESTIONS")
}
