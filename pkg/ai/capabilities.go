package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"workmate-bot/pkg/llm"
)

// Capabilities wraps the opaque model calls the assistant depends on:
// language detection, yes/no classification, translation and OCR.
// Every method returns an explicit error; callers decide the safe default.
type Capabilities struct {
	provider    llm.LLMProvider
	visionModel string
}

func NewCapabilities(provider llm.LLMProvider, visionModel string) *Capabilities {
	return &Capabilities{
		provider:    provider,
		visionModel: visionModel,
	}
}

// detectSampleCap bounds the text sent to the detector. Language is
// identifiable from a short prefix; the rest is wasted tokens.
const detectSampleCap = 600

var langCodeRe = regexp.MustCompile(`[a-z]{2}`)

// DetectLanguage returns a lowercase two-letter ISO-639-1-style code.
func (c *Capabilities) DetectLanguage(ctx context.Context, text string) (string, error) {
	sample := text
	if runes := []rune(sample); len(runes) > detectSampleCap {
		sample = string(runes[:detectSampleCap])
	}

	system := "You are a language identifier. Reply with ONLY the two-letter ISO 639-1 code of the language of the user's text. No punctuation, no explanation."
	out, err := c.provider.Generate(ctx, system, sample, llm.WithTemperature(0.0), llm.WithMaxTokens(8))
	if err != nil {
		return "", err
	}

	code := langCodeRe.FindString(strings.ToLower(strings.TrimSpace(out)))
	if code == "" {
		return "", fmt.Errorf("unparsable language detection output: %q", out)
	}
	return code, nil
}

// classifyTextCap bounds the message passed to the yes/no classifier.
const classifyTextCap = 400

// ClassifyYesNo asks the model a yes/no question about the given text.
// Any response not beginning with an affirmative token counts as false.
func (c *Capabilities) ClassifyYesNo(ctx context.Context, question, text, langHint string) (bool, error) {
	sample := text
	if runes := []rune(sample); len(runes) > classifyTextCap {
		sample = string(runes[:classifyTextCap])
	}

	system := "You answer strictly with the single word yes or no."
	prompt := fmt.Sprintf("Question: %s\nMessage language hint: %s\nMessage: %q", question, langHint, sample)

	out, err := c.provider.Generate(ctx, system, prompt, llm.WithTemperature(0.0), llm.WithMaxTokens(4))
	if err != nil {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(out))
	return strings.HasPrefix(answer, "yes"), nil
}

// Translate renders text into the target language (a two-letter code or a
// free-form instruction). The prompt forbids added apologies or disclaimers
// so canned UI strings survive translation intact.
func (c *Capabilities) Translate(ctx context.Context, text, targetLangOrInstruction string) (string, error) {
	system := "You are a translator. Translate the user's text as instructed. " +
		"Output ONLY the translation. Do not add apologies, disclaimers, notes or commentary that are not present in the source text."
	prompt := fmt.Sprintf("Target: %s\n\nText:\n%s", targetLangOrInstruction, text)

	out, err := c.provider.Generate(ctx, system, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// OCR extracts text from an image using the vision model. An empty string
// signals that nothing readable was found; that is not an error.
func (c *Capabilities) OCR(ctx context.Context, imageBytes []byte) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: "Extract all readable text from the image. Output only the extracted text. If there is no readable text, output nothing."},
		{Role: "user", Content: "Extract the text from this image.", Images: [][]byte{imageBytes}},
	}

	out, err := c.provider.Chat(ctx, history, llm.WithTemperature(0.0), llm.WithModel(c.visionModel))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
