package relay

import "strings"

// PromptPrefix is the fixed text every prompt starts with
const PromptPrefix = "Analyze the following answers and generate further questions for the user based on their health responses: "

// AnswerSeparator joins answers inside the prompt
const AnswerSeparator = ", "

// FallbackMessage is sent in place of model output when generation fails
const FallbackMessage = "Sorry, there was an error generating additional questions."

// BuildPrompt embeds answers, in order, in the fixed prompt template
func BuildPrompt(answers []string) string {
	return PromptPrefix + strings.Join(answers, AnswerSeparator)
}

// Fallback returns the payload sent when generation fails
func Fallback() GeneratedQuestions {
	return GeneratedQuestions{Questions: ListQuestions(FallbackMessage)}
}
