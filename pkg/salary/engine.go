package salary

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Plausibility bands. Numbers outside these are treated as "not found"
// rather than errors, so stray figures in a message never become a wage.
const (
	RateMin = 6.0
	RateMax = 40.0

	HoursMin = 1.0
	HoursMax = 100.0

	// Stricter band applied when persisting hours into the user profile.
	HoursStrictMin = 5.0
	HoursStrictMax = 60.0
)

// ErrNoHours signals that no weekly-hours value is available. Hours have no
// safe default, unlike the rate, so the engine refuses to guess.
var ErrNoHours = errors.New("salary: weekly hours unknown")

// Estimate carries both monthly conventions so callers can present both
// without re-deriving the formula.
type Estimate struct {
	ByAverageWeeksPerMonth float64 // rate × hours × 52/12
	ByFourWeekMonth        float64 // rate × hours × 4
}

// Engine extracts wage parameters from free text and computes deterministic
// monthly estimates. The clock is injectable for pay-scale selection.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

var (
	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	// Markers that raise confidence that a number is an hourly wage.
	rateMarkers = []string{
		"ставка", "почасовая", "тариф",
		"tuntipalkka", "palkka",
		"rate", "hourly", "wage", "per hour", "an hour", "/h",
		"€", "eur", "euro", "евро",
	}

	// Direct "<N> hours per week" phrasings per supported language.
	hoursWeekRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:h|hrs?|hours?)\s*(?:/\s*|per\s+|a\s+|each\s+)?(?:week|wk)`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:t|h|tuntia|tunnin)\s*(?:/\s*)?(?:viikossa|viikko|vko)`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*час(?:ов|а)?\s*(?:в\s+неделю|/\s*нед)`),
	}

	// Compound phrasing: "<N> hours per day" and "<M> days per week".
	hoursDayRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:h|hrs?|hours?|tuntia|час(?:ов|а)?)\s*(?:/\s*|per\s+|a\s+|в\s+)?(?:day|päivässä|день)`)
	daysWeekRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:days?|päivää|päivänä|дн(?:я|ей))\s*(?:/\s*|per\s+|a\s+|в\s+)?(?:week|viikossa|неделю)`)
)

// ExtractRate pulls a plausible hourly wage out of free text. Decimal
// numbers (either separator) qualify on their own; whole numbers only when
// a currency or rate marker appears nearby. Anything outside the wage band
// is rejected.
func (e *Engine) ExtractRate(text string) (float64, bool) {
	lower := strings.ToLower(text)
	hasMarker := false
	for _, m := range rateMarkers {
		if strings.Contains(lower, m) {
			hasMarker = true
			break
		}
	}

	for _, raw := range numberRe.FindAllString(text, -1) {
		hasFraction := strings.ContainsAny(raw, ".,")
		if !hasFraction && !hasMarker {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			continue
		}
		if v >= RateMin && v <= RateMax {
			return v, true
		}
	}
	return 0, false
}

// ExtractHours pulls weekly working hours out of free text. The compound
// "<N> hours per day, <M> days per week" form multiplies out; otherwise the
// direct weekly phrasings are tried per language.
func (e *Engine) ExtractHours(text string) (float64, bool) {
	if hpd, ok := firstNumber(hoursDayRe, text); ok {
		if dpw, ok := firstNumber(daysWeekRe, text); ok {
			return checkHours(hpd * dpw)
		}
	}

	for _, re := range hoursWeekRes {
		if v, ok := firstNumber(re, text); ok {
			return checkHours(v)
		}
	}
	return 0, false
}

// Estimate computes both monthly conventions, each rounded to two decimals.
func (e *Engine) Estimate(rate, hoursPerWeek float64) Estimate {
	return Estimate{
		ByAverageWeeksPerMonth: round2(rate * hoursPerWeek * 52.0 / 12.0),
		ByFourWeekMonth:        round2(rate * hoursPerWeek * 4.0),
	}
}

// MonthlyEstimate applies the published default rate when no confirmed rate
// exists, but refuses to guess hours. It reports the rate actually used.
func (e *Engine) MonthlyEstimate(rate, hoursPerWeek float64, wageGroup string) (Estimate, float64, error) {
	if hoursPerWeek <= 0 {
		return Estimate{}, 0, ErrNoHours
	}
	if rate <= 0 {
		rate = DefaultRate(wageGroup, e.now())
	}
	return e.Estimate(rate, hoursPerWeek), rate, nil
}

// InStrictHoursBand reports whether a value is safe to remember as the
// user's regular weekly hours.
func InStrictHoursBand(v float64) bool {
	return v >= HoursStrictMin && v <= HoursStrictMax
}

func checkHours(v float64) (float64, bool) {
	if v < HoursMin || v > HoursMax {
		return 0, false
	}
	return v, true
}

func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, err := parseNumber(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
