package knowledge

import (
	"fmt"
	"strings"
)

// groundingPrompt builds the system instruction for a grounded answer:
// answer only from the assembled context, admit when the context has no
// answer, suggest escalation to a human supervisor, reply in the user's
// active language.
func groundingPrompt(langCode string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a workplace assistant answering an employee's question from reference material.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("1. Answer ONLY from the reference material in <context>. Never use outside knowledge.\n")
	prompt.WriteString("2. If the context does not contain the answer, say so explicitly and suggest the employee contact their supervisor.\n")
	prompt.WriteString("3. Be concise and practical.\n")
	prompt.WriteString(fmt.Sprintf("4. Reply in the language with ISO code %q.\n", langCode))
	prompt.WriteString("</rules>")

	return prompt.String()
}

// buildContext concatenates selected chunks into a context block, each
// prefixed with its source document and chunk index. Assembly stops at the
// first chunk that would exceed the budget; lower-ranked chunks are dropped
// whole, never truncated.
func buildContext(chunks []*Chunk, budget int) string {
	var b strings.Builder

	for _, c := range chunks {
		entry := fmt.Sprintf("[%s #%d]\n%s\n\n", c.DocumentName, c.ChunkIndex, c.Text)
		if b.Len()+len(entry) > budget {
			break
		}
		b.WriteString(entry)
	}

	return strings.TrimSpace(b.String())
}

func userPrompt(contextBlock, question string) string {
	var b strings.Builder
	b.WriteString("<context>\n")
	b.WriteString(contextBlock)
	b.WriteString("\n</context>\n\n")
	b.WriteString("<question>\n")
	b.WriteString(question)
	b.WriteString("\n</question>")
	return b.String()
}
