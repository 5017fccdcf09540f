package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/answer-eval-api/internal/dto"
)

func TestBuildGradingPromptSectionOrder(t *testing.T) {
	item := dto.DefaultQuestionItem()
	item.Answer = "STUDENT"
	item.QuestionDetails.ModelAnswer = "MODEL"
	item.QuestionDetails.QuestionText = "QUESTION TEXT"
	item.EvaluationConfig.Criteria = "CRITERIA"
	item.EvaluationConfig.Instructions = "INSTRUCTIONS"
	item.EvaluationConfig.MaxScore = 20

	prompt := BuildGradingPrompt(item)

	markers := []string{
		"🔹 Model Answer:\nMODEL",
		"🔹 Student Answer:\nSTUDENT",
		"🔹 Evaluation Criteria:\nCRITERIA",
		"🔹 Instructions:\nINSTRUCTIONS",
		"Score: (out of 20)",
		"Feedback: (One line improvement)",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(prompt, marker)
		require.Greater(t, idx, last, "marker %q out of order", marker)
		last = idx
	}
	require.NotContains(t, prompt, "QUESTION TEXT")
}

func TestBuildGradingPromptDefaultMaxScore(t *testing.T) {
	prompt := BuildGradingPrompt(dto.DefaultQuestionItem())
	require.Contains(t, prompt, "Score: (out of 10)")
}

func TestParseGradingReply(t *testing.T) {
	cases := []struct {
		name     string
		reply    string
		score    int
		feedback string
	}{
		{name: "canonical", reply: "Score: 7\nFeedback: Needs more detail.", score: 7, feedback: "Needs more detail."},
		{name: "dash separator", reply: "Score - 9/10\nFeedback - Great work  ", score: 9, feedback: "Great work"},
		{name: "no separator", reply: "Score 4 Feedback mention chlorophyll", score: 4, feedback: "mention chlorophyll"},
		{name: "feedback on next line", reply: "Score: 3\nFeedback:\n  Expand the second point.\nExtra", score: 3, feedback: "Expand the second point."},
		{name: "first score wins", reply: "Score: 6\nScore: 8\nFeedback: one", score: 6, feedback: "one"},
		{name: "skips non-numeric score token", reply: "Scores vary. Score: 5", score: 5, feedback: NoFeedback},
		{name: "case sensitive", reply: "score: 8\nfeedback: lower", score: 0, feedback: NoFeedback},
		{name: "empty reply", reply: "", score: 0, feedback: NoFeedback},
		{name: "out of range passes through", reply: "Score: 42\nFeedback: ok", score: 42, feedback: "ok"},
		{name: "empty feedback line", reply: "Score: 2\nFeedback:", score: 2, feedback: ""},
		{name: "overflowing digits", reply: "Score: 99999999999999999999999\nFeedback: x", score: 0, feedback: "x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply := ParseGradingReply(tc.reply)
			require.Equal(t, tc.score, reply.Score)
			require.Equal(t, tc.feedback, reply.Feedback)
		})
	}
}
