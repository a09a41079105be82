package lang

import (
	"context"
	"strings"
	"unicode"

	"github.com/patrickmn/go-cache"

	"workmate-bot/internal/pkg/logger"
)

// Detector is the external language-detection capability.
type Detector interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// Translator is the external translation capability used for UI strings.
type Translator interface {
	Translate(ctx context.Context, text, targetLangOrInstruction string) (string, error)
}

// Cache is the per-user language store. Kept behind an interface so tests
// can inject isolated fakes instead of sharing a process-wide map.
type Cache interface {
	Get(userID string) (string, bool)
	Set(userID, code string)
	Delete(userID string)
}

// CacheStore backs the language cache with go-cache, no expiration.
type CacheStore struct {
	cache *cache.Cache
}

func NewCacheStore() *CacheStore {
	return &CacheStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *CacheStore) Get(userID string) (string, bool) {
	if x, found := s.cache.Get(userID); found {
		return x.(string), true
	}
	return "", false
}

func (s *CacheStore) Set(userID, code string) {
	s.cache.Set(userID, code, cache.NoExpiration)
}

func (s *CacheStore) Delete(userID string) {
	s.cache.Delete(userID)
}

// Registry tracks each user's active language. The system must always have
// some active language; every failure path lands on the fallback code.
type Registry struct {
	detector   Detector
	translator Translator
	cache      Cache
	fallback   string
	native     string
	log        logger.ILogger
}

func NewRegistry(detector Detector, translator Translator, store Cache, fallback, native string, log logger.ILogger) *Registry {
	if fallback == "" {
		fallback = "en"
	}
	if native == "" {
		native = "en"
	}
	return &Registry{
		detector:   detector,
		translator: translator,
		cache:      store,
		fallback:   fallback,
		native:     native,
		log:        log,
	}
}

// Current returns the cached language for a user, or the fallback.
func (r *Registry) Current(userID string) string {
	if code, ok := r.cache.Get(userID); ok {
		return code
	}
	return r.fallback
}

// Resolve determines the active language for a user:
// cached value → well-formed platform hint → detector on a bounded sample → fallback.
func (r *Registry) Resolve(ctx context.Context, userID, platformHint, sampleText string) string {
	if code, ok := r.cache.Get(userID); ok {
		return code
	}

	if code := normalizeHint(platformHint); code != "" {
		r.cache.Set(userID, code)
		return code
	}

	code := r.detect(ctx, sampleText)
	r.cache.Set(userID, code)
	r.log.Info("lang", "language resolved", map[string]interface{}{"user": userID, "code": code})
	return code
}

// MaybeSwitch re-detects the language of the latest message and overwrites
// the cached value if it changed. Language is sticky only until the user's
// own text contradicts it.
func (r *Registry) MaybeSwitch(ctx context.Context, userID, latestText string) string {
	current := r.Current(userID)
	if strings.TrimSpace(latestText) == "" {
		return current
	}

	detected := r.detect(ctx, latestText)
	if detected != current {
		r.cache.Set(userID, detected)
		r.log.Info("lang", "language switched", map[string]interface{}{
			"user": userID, "from": current, "to": detected,
		})
		return detected
	}
	return current
}

// SetExplicit pins a language chosen by the user (e.g. a translation target).
func (r *Registry) SetExplicit(userID, code string) {
	if c := normalizeHint(code); c != "" {
		r.cache.Set(userID, c)
	}
}

// TranslateUI renders canned system prose in the user's active language.
// Returns the source unchanged when the user speaks the native language or
// when translation fails: a readable reply beats a blocked one.
func (r *Registry) TranslateUI(ctx context.Context, userID, sourceText string) string {
	code := r.Current(userID)
	if code == r.native {
		return sourceText
	}

	out, err := r.translator.Translate(ctx, sourceText, code)
	if err != nil || out == "" {
		r.log.Warn("lang", "ui translation failed", map[string]interface{}{"user": userID, "error": errString(err)})
		return sourceText
	}
	return out
}

func (r *Registry) detect(ctx context.Context, text string) string {
	// Script heuristic first: Cyrillic text never needs a model round-trip.
	if isMostlyCyrillic(text) {
		return "ru"
	}

	code, err := r.detector.DetectLanguage(ctx, text)
	if err != nil || code == "" {
		r.log.Warn("lang", "language detection failed", map[string]interface{}{"error": errString(err)})
		return r.fallback
	}
	return code
}

// normalizeHint accepts locale forms like "fi", "fi_FI" or "fi-FI" and
// returns the lowercase two-letter code, or "" when malformed.
func normalizeHint(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if len(hint) < 2 {
		return ""
	}
	code := hint[:2]
	for _, ch := range code {
		if ch < 'a' || ch > 'z' {
			return ""
		}
	}
	if len(hint) > 2 && hint[2] != '_' && hint[2] != '-' {
		return ""
	}
	return code
}

func isMostlyCyrillic(text string) bool {
	var cyr, letters int
	for _, ch := range text {
		if unicode.IsLetter(ch) {
			letters++
			if unicode.Is(unicode.Cyrillic, ch) {
				cyr++
			}
		}
	}
	return letters > 0 && cyr*2 > letters
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
