package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workmate-bot/internal/dto"
	"workmate-bot/internal/pkg/logger"
	"workmate-bot/pkg/ai"
	"workmate-bot/pkg/convo"
	"workmate-bot/pkg/intent"
	"workmate-bot/pkg/knowledge"
	"workmate-bot/pkg/lang"
	"workmate-bot/pkg/llm"
	"workmate-bot/pkg/salary"
	"workmate-bot/pkg/translate"
)

// --- fakes ---

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendText(_ context.Context, _, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeMedia struct{}

func (fakeMedia) FetchMedia(_ context.Context, _ string) ([]byte, error) {
	return []byte("img"), nil
}

type fakeDetector struct{ code string }

func (f *fakeDetector) DetectLanguage(_ context.Context, _ string) (string, error) {
	return f.code, nil
}

// passthroughTranslator keeps UI strings identical so assertions can match
// on the native-language text.
type passthroughTranslator struct{}

func (passthroughTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

type noClassifier struct{}

func (noClassifier) ClassifyYesNo(_ context.Context, _, _, _ string) (bool, error) {
	return false, nil
}

type fakeDocStore struct{ docs []knowledge.Document }

func (f *fakeDocStore) Load() ([]knowledge.Document, error) { return f.docs, nil }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(string) ([]float32, error) { return []float32{1}, nil }
func (fakeEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

type fakeLLM struct{ reply string }

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.reply, nil
}

func (f *fakeLLM) Generate(_ context.Context, _, _ string, _ ...llm.Option) (string, error) {
	return f.reply, nil
}

// --- harness ---

type harness struct {
	svc    IAssistantService
	sender *fakeSender
	states convo.Store
}

func newHarness(t *testing.T, docs []knowledge.Document) *harness {
	t.Helper()

	log := logger.NewNopLogger()
	states := convo.NewCacheStore()
	registry := lang.NewRegistry(&fakeDetector{code: "en"}, passthroughTranslator{}, lang.NewCacheStore(), "en", "en", log)
	engine := salary.NewEngine()
	resolver := intent.NewResolver(noClassifier{}, engine, log)
	router := translate.NewRouter(passthroughTranslator{}, log)
	provider := &fakeLLM{reply: "grounded answer"}
	caps := ai.NewCapabilities(provider, "llava")
	index := knowledge.NewIndex(&fakeDocStore{docs: docs}, fakeEmbedder{}, provider, knowledge.Options{}, log)
	if docs != nil {
		require.NoError(t, index.Rebuild(context.Background()))
	}

	sender := &fakeSender{}
	svc := NewAssistantService(states, registry, resolver, engine, index, router, caps, sender, fakeMedia{}, 8, log)

	return &harness{svc: svc, sender: sender, states: states}
}

func (h *harness) text(userID, body string) {
	h.svc.HandleInbound(context.Background(), &dto.InboundMessage{
		UserID: userID,
		Kind:   dto.KindText,
		Text:   body,
	})
}

// --- tests ---

func TestHandleInbound_ProfilePersistsAcrossTurns(t *testing.T) {
	h := newHarness(t, nil)

	// Turn 1: rate only. The engine must ask for hours, never guess them.
	h.text("u1", "what will my salary be, tuntipalkka 12.26")
	assert.Contains(t, h.sender.last(), "weekly hours")

	// Turn 2: hours only. The remembered rate must be reused.
	h.text("u1", "25 h/week")
	reply := h.sender.last()
	assert.Contains(t, reply, "12.26")
	assert.Contains(t, reply, "1328.17")
	assert.Contains(t, reply, "1226.00")

	state, found := h.states.Get("u1")
	require.True(t, found)
	require.NotNil(t, state.Profile.HourlyRate)
	assert.InDelta(t, 12.26, *state.Profile.HourlyRate, 1e-9)
	require.NotNil(t, state.Profile.HoursPerWeek)
	assert.InDelta(t, 25.0, *state.Profile.HoursPerWeek, 1e-9)
}

func TestHandleInbound_DefaultRateWhenUnknown(t *testing.T) {
	h := newHarness(t, nil)

	// Hours known, rate never supplied: the published pay-scale rate applies.
	h.text("u1", "how much will i get with 45 h/week")
	reply := h.sender.last()
	assert.Contains(t, reply, "estimated monthly salary")
	assert.Contains(t, reply, "10.83", "pay-scale default rate for wage group B")
	assert.NotContains(t, reply, "weekly hours", "must not ask for hours it already has")
}

func TestHandleInbound_UnrelatedNumberDoesNotBecomeRate(t *testing.T) {
	h := newHarness(t, nil)

	// A clock time is a knowledge question, not a wage.
	h.text("u1", "the team meeting starts at 12.30")

	state, found := h.states.Get("u1")
	require.True(t, found)
	assert.Nil(t, state.Profile.HourlyRate)

	// A later genuine salary question must use the pay-scale default,
	// not the stray 12.30.
	h.text("u1", "how much will i get with 45 h/week")
	reply := h.sender.last()
	assert.Contains(t, reply, "10.83")
	assert.NotContains(t, reply, "12.30")
}

func TestHandleInbound_ResetClearsProfileKeepsLanguage(t *testing.T) {
	h := newHarness(t, nil)

	h.text("u1", "my salary with tuntipalkka 12.26 and 25 h/week")
	h.text("u1", "reset")

	assert.Contains(t, h.sender.last(), "forgotten")

	state, found := h.states.Get("u1")
	require.True(t, found)
	assert.Nil(t, state.Profile.HourlyRate)
	assert.Nil(t, state.Profile.HoursPerWeek)
	assert.Equal(t, "en", state.LanguageCode)
}

func TestHandleInbound_KnowledgeQuery(t *testing.T) {
	h := newHarness(t, []knowledge.Document{
		{Name: "policy.txt", RawText: "vacation is requested from the supervisor"},
	})

	h.text("u1", "how do I request vacation")
	assert.Equal(t, "grounded answer", h.sender.last())

	state, found := h.states.Get("u1")
	require.True(t, found)
	assert.Equal(t, "kb", state.LastTopic)
	assert.Equal(t, "how do I request vacation", state.LastKbQuery)
}

func TestHandleInbound_EmptyIndexAnswersNoDocuments(t *testing.T) {
	h := newHarness(t, nil)

	h.text("u1", "how do I request vacation")
	assert.Equal(t, knowledge.NoDocumentsAnswer, h.sender.last())
}

func TestHandleInbound_TranslateThatUsesLastBotReply(t *testing.T) {
	h := newHarness(t, []knowledge.Document{
		{Name: "policy.txt", RawText: "vacation is requested from the supervisor"},
	})

	h.text("u1", "how do I request vacation")
	h.text("u1", "translate that to finnish")

	// The passthrough translator echoes its input: the previous bot reply.
	assert.Equal(t, "grounded answer", h.sender.last())
}

func TestHandleInbound_HistoryIsBounded(t *testing.T) {
	h := newHarness(t, nil)

	for i := 0; i < 10; i++ {
		h.text("u1", "hello")
	}

	state, found := h.states.Get("u1")
	require.True(t, found)
	assert.LessOrEqual(t, len(state.History), 8)
}

func TestHandleInbound_SalaryReplyMentionsBothConventions(t *testing.T) {
	h := newHarness(t, nil)

	h.text("u1", "salary? rate 10.57, 37.5 h/week")
	reply := h.sender.last()

	// Both figures present, two decimals each.
	assert.Equal(t, 1, strings.Count(reply, "1717.63"))
	assert.Equal(t, 1, strings.Count(reply, "1585.50"))
}
