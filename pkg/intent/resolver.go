package intent

import (
	"context"
	"strings"

	"workmate-bot/internal/pkg/logger"
	"workmate-bot/pkg/salary"
	"workmate-bot/pkg/translate"
)

// Classifier is the external yes/no intent-classification capability used
// when the lexical fast path does not match.
type Classifier interface {
	ClassifyYesNo(ctx context.Context, question, text, langHint string) (bool, error)
}

const scheduleQuestion = "Is this message asking about a work schedule, shifts, or working days?"

// Resolver classifies messages with an ordered rule table. The order IS the
// tie-break policy: reset > small talk > translation > schedule > salary >
// knowledge fallback. A message matching several categories resolves to the
// first rule that fires.
type Resolver struct {
	classifier Classifier
	engine     *salary.Engine
	log        logger.ILogger
	rules      []rule
}

type rule struct {
	name  string
	match func(ctx context.Context, m *message) *Decision
}

// message carries the lowered text alongside the original so rule
// predicates don't re-lower it per rule.
type message struct {
	raw      string
	lower    string
	langHint string
}

func NewResolver(classifier Classifier, engine *salary.Engine, log logger.ILogger) *Resolver {
	r := &Resolver{
		classifier: classifier,
		engine:     engine,
		log:        log,
	}
	r.rules = []rule{
		{name: "reset", match: r.matchReset},
		{name: "small_talk", match: r.matchSmallTalk},
		{name: "translation", match: r.matchTranslation},
		{name: "schedule", match: r.matchSchedule},
		{name: "salary", match: r.matchSalary},
	}
	return r
}

// Classify resolves a message into a Decision. Never returns nil: the
// knowledge query is the default when no rule fires.
func (r *Resolver) Classify(ctx context.Context, text, langHint string) *Decision {
	m := &message{
		raw:      text,
		lower:    strings.ToLower(text),
		langHint: langHint,
	}

	if strings.TrimSpace(text) == "" {
		return &Decision{Kind: KindUnknown}
	}

	for _, rl := range r.rules {
		if d := rl.match(ctx, m); d != nil {
			r.log.Debug("intent", "rule matched", map[string]interface{}{"rule": rl.name})
			return d
		}
	}

	return &Decision{Kind: KindKnowledge}
}

// matchReset only accepts the command anchored at the start of the message.
// Reset is destructive: "how do I reset my password" has to stay an ordinary
// question, and "preset" must not match at all.
func (r *Resolver) matchReset(_ context.Context, m *message) *Decision {
	trimmed := strings.Trim(m.lower, " !?.,")
	for _, t := range resetTriggers {
		if trimmed == t || strings.HasPrefix(trimmed, t+" ") || strings.HasPrefix(trimmed, t+",") {
			return &Decision{Kind: KindReset}
		}
	}
	return nil
}

func (r *Resolver) matchSmallTalk(_ context.Context, m *message) *Decision {
	trimmed := strings.Trim(m.lower, " !?.,")
	for _, t := range smallTalkTriggers {
		if trimmed == t || strings.HasPrefix(trimmed, t+" ") || strings.HasPrefix(trimmed, t+",") {
			return &Decision{Kind: KindSmallTalk}
		}
	}
	return nil
}

func (r *Resolver) matchTranslation(_ context.Context, m *message) *Decision {
	cmd := translate.ParseCommand(m.raw)
	if cmd == nil {
		return nil
	}
	return &Decision{
		Kind:       KindTranslation,
		TargetLang: cmd.TargetLang,
		Text:       cmd.Text,
	}
}

// matchSchedule is the two-stage pipeline: lexical fast path first, then
// the yes/no classifier. A classifier failure counts as "no match".
func (r *Resolver) matchSchedule(ctx context.Context, m *message) *Decision {
	if containsAny(m.lower, scheduleKeywords) {
		return &Decision{Kind: KindSchedule}
	}

	for _, pair := range schedulePairs {
		if strings.Contains(m.lower, pair[0]) && strings.Contains(m.lower, pair[1]) {
			return &Decision{Kind: KindSchedule}
		}
	}

	// Fast path missed: only spend a classifier call on plausible questions.
	if !looksLikeQuestion(m.lower) {
		return nil
	}

	positive, err := r.classifier.ClassifyYesNo(ctx, scheduleQuestion, m.raw, m.langHint)
	if err != nil {
		r.log.Warn("intent", "schedule classifier failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if positive {
		return &Decision{Kind: KindSchedule}
	}
	return nil
}

func (r *Resolver) matchSalary(_ context.Context, m *message) *Decision {
	// The trigger phrase is mandatory. A bare in-band number such as a
	// clock time or a room number must not open the salary topic, and it
	// must never be stored as the user's hourly rate.
	if !containsAny(m.lower, salaryTriggers) {
		return nil
	}

	rate, rateOK := r.engine.ExtractRate(m.raw)
	hours, hoursOK := r.engine.ExtractHours(m.raw)

	return &Decision{
		Kind:    KindSalary,
		Rate:    rate,
		RateOK:  rateOK,
		Hours:   hours,
		HoursOK: hoursOK,
	}
}

func containsAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func looksLikeQuestion(lower string) bool {
	if strings.Contains(lower, "?") {
		return true
	}
	for _, w := range []string{"when", "what time", "milloin", "koska", "когда", "во сколько"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
