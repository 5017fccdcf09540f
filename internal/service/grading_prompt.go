package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/answer-eval-api/internal/dto"
)

// NoFeedback is recorded when the reply carries no Feedback line.
const NoFeedback = "No feedback"

var (
	scorePattern    = regexp.MustCompile(`Score\s*[:\-]?\s*(\d+)`)
	feedbackPattern = regexp.MustCompile(`Feedback\s*[:\-]?\s*(.*)`)
)

// GradingReply is the score and feedback extracted from a free-text grading reply.
type GradingReply struct {
	Score    int
	Feedback string
}

// BuildGradingPrompt renders the examiner prompt for a question.
// Section order and the Score/Feedback trailer must stay in sync with ParseGradingReply.
func BuildGradingPrompt(item dto.QuestionItem) string {
	builder := strings.Builder{}
	builder.WriteString("\nYou are an examiner. Evaluate the student's answer based on the following:\n")
	builder.WriteString("\n🔹 Model Answer:\n")
	builder.WriteString(item.QuestionDetails.ModelAnswer)
	builder.WriteString("\n\n🔹 Student Answer:\n")
	builder.WriteString(item.Answer)
	builder.WriteString("\n\n🔹 Evaluation Criteria:\n")
	builder.WriteString(item.EvaluationConfig.Criteria)
	builder.WriteString("\n\n🔹 Instructions:\n")
	builder.WriteString(item.EvaluationConfig.Instructions)
	builder.WriteString("\n\nProvide:\nScore: (out of ")
	builder.WriteString(strconv.Itoa(item.EvaluationConfig.MaxScore))
	builder.WriteString(")\nFeedback: (One line improvement)\n")
	return builder.String()
}

// ParseGradingReply scans the reply for the first Score and Feedback markers.
// Missing markers fall back to 0 and NoFeedback; the score is not clamped to max_score.
func ParseGradingReply(reply string) GradingReply {
	result := GradingReply{Feedback: NoFeedback}

	if match := scorePattern.FindStringSubmatch(reply); match != nil {
		// digits too long for int are treated as unparseable
		if score, err := strconv.Atoi(match[1]); err == nil {
			result.Score = score
		}
	}

	if match := feedbackPattern.FindStringSubmatch(reply); match != nil {
		result.Feedback = strings.TrimSpace(match[1])
	}

	return result
}
