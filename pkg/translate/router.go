package translate

import (
	"context"
	"regexp"
	"strings"

	"workmate-bot/internal/pkg/logger"
)

// Command is an explicit translation request parsed out of a message.
type Command struct {
	TargetLang string // two-letter code
	Text       string // text to translate; "" means "translate the previous bot reply"
}

// Translator is the external translation capability.
type Translator interface {
	Translate(ctx context.Context, text, targetLangOrInstruction string) (string, error)
}

// Router parses translation commands and dispatches them.
type Router struct {
	translator Translator
	log        logger.ILogger
}

func NewRouter(translator Translator, log logger.ILogger) *Router {
	return &Router{translator: translator, log: log}
}

// languageNames maps natural-language names to ISO codes for the
// "translate to <language>" phrasing.
var languageNames = map[string]string{
	"english": "en", "englanti": "en", "englanniksi": "en", "английский": "en", "англійська": "en",
	"finnish": "fi", "suomi": "fi", "suomeksi": "fi", "финский": "fi", "фінська": "fi",
	"russian": "ru", "venäjä": "ru", "venäjäksi": "ru", "русский": "ru",
	"estonian": "et", "viro": "et", "viroksi": "et", "эстонский": "et", "eesti": "et",
	"ukrainian": "uk", "ukraina": "uk", "украинский": "uk", "українська": "uk",
	"swedish": "sv", "ruotsi": "sv", "ruotsiksi": "sv", "шведский": "sv",
	"spanish": "es", "espanja": "es", "испанский": "es",
	"german": "de", "saksa": "de", "немецкий": "de",
}

var (
	// Shorthand: "tr <cc> <text>" / "käännä <cc> <text>" / "переведи <cc> <text>"
	shorthandRe = regexp.MustCompile(`(?i)^(?:tr|käännä|переведи)\s+([a-z]{2})\s+(.+)$`)

	// Natural: "translate [that|this|<text>] to <language>[: text]"
	naturalRe = regexp.MustCompile(`(?i)^(?:translate|käännä|переведи)\s+(?:(.*?)\s+)?(?:to|into|kielelle|на)\s+([\p{L}]+)\s*[:,]?\s*(.*)$`)
)

// backRefs are the words users substitute for "the previous bot reply".
var backRefs = map[string]bool{
	"": true, "that": true, "this": true, "it": true,
	"se": true, "tämä": true, "tuo": true,
	"это": true, "то": true, "це": true,
}

// ParseCommand detects an explicit translation command. Returns nil when the
// message is not one.
func ParseCommand(text string) *Command {
	trimmed := strings.TrimSpace(text)

	if m := shorthandRe.FindStringSubmatch(trimmed); m != nil {
		return &Command{
			TargetLang: strings.ToLower(m[1]),
			Text:       strings.TrimSpace(m[2]),
		}
	}

	if m := naturalRe.FindStringSubmatch(trimmed); m != nil {
		name := strings.ToLower(m[2])
		code, known := languageNames[name]
		if !known {
			if len(name) == 2 {
				code = name
			} else {
				return nil
			}
		}

		subject := strings.TrimSpace(m[1])
		tail := strings.TrimSpace(m[3])

		switch {
		case tail != "":
			return &Command{TargetLang: code, Text: tail}
		case backRefs[strings.ToLower(subject)]:
			return &Command{TargetLang: code, Text: ""}
		default:
			return &Command{TargetLang: code, Text: subject}
		}
	}

	return nil
}

// Dispatch runs a parsed command. An empty Text resolves against the last
// bot reply; when that is also empty there is nothing to translate.
func (r *Router) Dispatch(ctx context.Context, cmd *Command, lastBotText string) (string, error) {
	source := cmd.Text
	if source == "" {
		source = lastBotText
	}
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	out, err := r.translator.Translate(ctx, source, cmd.TargetLang)
	if err != nil {
		r.log.Warn("translate", "translation failed", map[string]interface{}{
			"target": cmd.TargetLang, "error": err.Error(),
		})
		return "", err
	}
	return out, nil
}
