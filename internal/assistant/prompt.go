package assistant

import (
	"fmt"
	"strings"
)

// NotFoundAnswer is the fixed reply when the document has no answer.
const NotFoundAnswer = "I could not find an answer to that in the document."

const summarySystemPrompt = `You summarize documents for a reading assistant. Write plain prose.`

func buildSummaryUserMessage(text string) string {
	return "Summarize the following document in about 150 words:\n\n" + text
}

const answerSystemPrompt = `You are an assistant for a document analysis tool. You answer questions based only on the provided document content.`

func buildAnswerUserMessage(text, question string) string {
	var b strings.Builder

	b.WriteString(`Rules:
1. Grounding: base your entire answer strictly on the text of the document. Do not use outside knowledge or make assumptions.
2. No hallucination: if the answer cannot be found in the document, reply exactly: "` + NotFoundAnswer + `" Do not infer or guess.
3. Justification: quote the document directly to support your answer.

`)
	writeDocument(&b, text)
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString(`Output format:
Answer: [your answer]
Justification: "[direct quote from the document that supports the answer]"`)

	return b.String()
}

const quizSystemPrompt = `You write quizzes for a document analysis tool. Questions test understanding, not recall.`

func buildQuizUserMessage(text string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d challenging, logic-based questions about the document below.\n\n", QuizSize)
	b.WriteString(`Rules:
1. Logic-based: questions should require inference, relationships (cause and effect, compare and contrast) or applying concepts from the text. Avoid simple fact recall.
2. Grounded: every question and its answer must be directly supported by the document.
3. Respond with JSON of the form {"questions": [{"question": "...", "answer": "..."}]}.

`)
	writeDocument(&b, text)
	b.WriteString(`Example item:
{"question": "Based on the project's timeline, what is the most likely consequence of a delay in phase 2?", "answer": "A delay in phase 2 would likely postpone the final launch, as phase 3 depends on its completion."}`)

	return b.String()
}

const evaluateSystemPrompt = `You evaluate a user's quiz answer for a document analysis tool. Be encouraging and helpful.`

func buildEvaluateUserMessage(text, question, userAnswer, referenceAnswer string) string {
	var b strings.Builder

	b.WriteString(`Rules:
1. Evaluation: decide whether the user's answer is correct, partially correct or incorrect, using the reference answer and the document.
2. Justification: explain why, referencing specific information from the document.

`)
	writeDocument(&b, text)
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "User's answer: %s\n", userAnswer)
	fmt.Fprintf(&b, "Reference answer: %s\n\n", referenceAnswer)
	b.WriteString("Feedback:")

	return b.String()
}

func writeDocument(b *strings.Builder, text string) {
	b.WriteString("Document text:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
}
