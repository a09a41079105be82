package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/logger"
	"workmate-bot/pkg/ai"
	"workmate-bot/pkg/convo"
	"workmate-bot/pkg/intent"
	"workmate-bot/pkg/knowledge"
	"workmate-bot/pkg/lang"
	"workmate-bot/pkg/messenger"
	"workmate-bot/pkg/salary"
	"workmate-bot/pkg/translate"
)

type IAssistantService interface {
	HandleInbound(ctx context.Context, msg *dto.InboundMessage)
}

// Canned UI strings, written in the system's native language and rendered
// into the user's language on send.
const (
	uiGreeting = "Hi! I can answer questions about your workplace, estimate your monthly salary, and translate messages. How can I help?"
	uiResetAck = "Done. I've forgotten your saved details. Your language setting is kept."
	uiAskHours = "To estimate your salary I still need your weekly hours. For example: \"25 h/week\" or \"8 hours per day, 5 days per week\"."
	uiCantRead = "Sorry, I couldn't read any text from that file. Could you type your question instead?"
	uiNothing  = "There is nothing for me to translate yet."
	uiOops     = "Sorry, something went wrong on my side. Please try again."
	uiSalary   = "With an hourly rate of %.2f and %.0f hours per week, your estimated monthly salary is %.2f (average month of 52/12 weeks) or %.2f (flat 4-week month)."
)

type assistantService struct {
	states   convo.Store
	registry *lang.Registry
	resolver *intent.Resolver
	engine   *salary.Engine
	index    *knowledge.Index
	router   *translate.Router
	caps     *ai.Capabilities
	sender   messenger.Sender
	media    messenger.MediaFetcher
	log      logger.ILogger

	historyLimit int
}

func NewAssistantService(
	states convo.Store,
	registry *lang.Registry,
	resolver *intent.Resolver,
	engine *salary.Engine,
	index *knowledge.Index,
	router *translate.Router,
	caps *ai.Capabilities,
	sender messenger.Sender,
	media messenger.MediaFetcher,
	historyLimit int,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		states:       states,
		registry:     registry,
		resolver:     resolver,
		engine:       engine,
		index:        index,
		router:       router,
		caps:         caps,
		sender:       sender,
		media:        media,
		historyLimit: historyLimit,
		log:          log,
	}
}

// HandleInbound runs one conversational turn end to end. Nothing here may
// escape as an error: every failure path becomes a best-effort reply so the
// conversation continues.
func (as *assistantService) HandleInbound(ctx context.Context, msg *dto.InboundMessage) {
	state := as.states.GetOrCreate(msg.UserID, as.historyLimit)

	text, ok := as.resolveText(ctx, msg, state)
	if !ok {
		return
	}

	// Language: first contact resolves, later turns re-detect.
	var code string
	if state.LanguageCode == "" {
		code = as.registry.Resolve(ctx, msg.UserID, msg.PlatformLang, text)
	} else {
		code = as.registry.MaybeSwitch(ctx, msg.UserID, text)
	}
	state.LanguageCode = code

	reply := as.route(ctx, state, text, code)
	if reply == "" {
		reply = as.registry.TranslateUI(ctx, msg.UserID, uiOops)
	}

	as.send(ctx, msg.UserID, reply)

	state.AppendTurn("user", text)
	state.AppendTurn("assistant", reply)
	state.LastUserText = text
	state.LastBotText = reply
	as.states.Save(state)
}

// resolveText turns media messages into text via OCR. An unreadable file
// gets an apologetic reply and ends the turn.
func (as *assistantService) resolveText(ctx context.Context, msg *dto.InboundMessage, state *convo.State) (string, bool) {
	if msg.Kind == dto.KindText {
		return msg.Text, msg.Text != ""
	}

	bytes, err := as.media.FetchMedia(ctx, msg.MediaID)
	if err != nil {
		as.log.Error("assistant", "media fetch failed", map[string]interface{}{"user": msg.UserID, "error": err.Error()})
		as.send(ctx, msg.UserID, as.registry.TranslateUI(ctx, msg.UserID, uiCantRead))
		return "", false
	}

	extracted, err := as.caps.OCR(ctx, bytes)
	if err != nil || strings.TrimSpace(extracted) == "" {
		as.log.Warn("assistant", "ocr produced no text", map[string]interface{}{"user": msg.UserID, "error": errString(err)})
		as.send(ctx, msg.UserID, as.registry.TranslateUI(ctx, msg.UserID, uiCantRead))
		return "", false
	}

	return extracted, true
}

func (as *assistantService) route(ctx context.Context, state *convo.State, text, code string) string {
	// Short follow-up: after a salary turn, an hours phrase or a bare
	// number answers the engine's question instead of opening a new topic.
	if state.LastTopic == "salary" {
		if v, ok := as.engine.ExtractHours(text); ok {
			return as.handleSalary(ctx, state, &intent.Decision{Kind: intent.KindSalary, Hours: v, HoursOK: true})
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64); err == nil {
			if v >= salary.HoursMin && v <= salary.HoursMax {
				return as.handleSalary(ctx, state, &intent.Decision{Kind: intent.KindSalary, Hours: v, HoursOK: true})
			}
		}
	}

	decision := as.resolver.Classify(ctx, text, code)

	switch decision.Kind {
	case intent.KindReset:
		state.Reset()
		return as.registry.TranslateUI(ctx, state.UserID, uiResetAck)

	case intent.KindSmallTalk:
		return as.registry.TranslateUI(ctx, state.UserID, uiGreeting)

	case intent.KindTranslation:
		return as.handleTranslation(ctx, state, decision)

	case intent.KindSchedule:
		state.LastTopic = "schedule"
		state.LastKbQuery = text
		return as.grounded(ctx, state, text, code)

	case intent.KindSalary:
		return as.handleSalary(ctx, state, decision)

	case intent.KindUnknown:
		return as.registry.TranslateUI(ctx, state.UserID, uiGreeting)

	default: // KindKnowledge
		state.LastTopic = "kb"
		state.LastKbQuery = text
		return as.grounded(ctx, state, text, code)
	}
}

// grounded answers from the knowledge index, translating the canned
// fallbacks when the index substitutes one.
func (as *assistantService) grounded(ctx context.Context, state *convo.State, question, code string) string {
	answer := as.index.Query(ctx, question, code)
	if answer == knowledge.NoDocumentsAnswer || answer == knowledge.FallbackAnswer {
		return as.registry.TranslateUI(ctx, state.UserID, answer)
	}
	return answer
}

func (as *assistantService) handleTranslation(ctx context.Context, state *convo.State, d *intent.Decision) string {
	out, err := as.router.Dispatch(ctx, &translate.Command{TargetLang: d.TargetLang, Text: d.Text}, state.LastBotText)
	if err != nil {
		return as.registry.TranslateUI(ctx, state.UserID, uiOops)
	}
	if out == "" {
		return as.registry.TranslateUI(ctx, state.UserID, uiNothing)
	}
	state.LastTopic = "translation"
	return out
}

func (as *assistantService) handleSalary(ctx context.Context, state *convo.State, d *intent.Decision) string {
	// Merge freshly parsed values into the remembered profile.
	if d.RateOK {
		rate := d.Rate
		state.Profile.HourlyRate = &rate
	}
	if d.HoursOK && salary.InStrictHoursBand(d.Hours) {
		hours := d.Hours
		state.Profile.HoursPerWeek = &hours
	}

	var rate, hours float64
	if state.Profile.HourlyRate != nil {
		rate = *state.Profile.HourlyRate
	}
	switch {
	case d.HoursOK:
		hours = d.Hours
	case state.Profile.HoursPerWeek != nil:
		hours = *state.Profile.HoursPerWeek
	}

	state.LastTopic = "salary"

	est, usedRate, err := as.engine.MonthlyEstimate(rate, hours, salary.DefaultWageGroup)
	if err != nil {
		return as.registry.TranslateUI(ctx, state.UserID, uiAskHours)
	}

	reply := fmt.Sprintf(uiSalary, usedRate, hours, est.ByAverageWeeksPerMonth, est.ByFourWeekMonth)
	return as.registry.TranslateUI(ctx, state.UserID, reply)
}

// send delivers the reply. Transport failures are logged, never retried.
func (as *assistantService) send(ctx context.Context, userID, text string) {
	if err := as.sender.SendText(ctx, userID, text); err != nil {
		as.log.Error("assistant", "send failed", map[string]interface{}{"user": userID, "error": err.Error()})
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
