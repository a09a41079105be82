package intent

// Kind tags the resolved purpose of a user message.
type Kind string

const (
	KindReset       Kind = "RESET"
	KindSmallTalk   Kind = "SMALL_TALK"
	KindTranslation Kind = "TRANSLATION"
	KindSchedule    Kind = "SCHEDULE"
	KindSalary      Kind = "SALARY_CALC"
	KindKnowledge   Kind = "KNOWLEDGE_QUERY"
	KindUnknown     Kind = "UNKNOWN"
)

// Decision is the tagged result of classifying one message. It lives for a
// single turn; only the topic hint survives into the next one.
type Decision struct {
	Kind Kind

	// Translation fields
	TargetLang string
	Text       string

	// Salary fields hold values parsed from the message, when present.
	Rate     float64
	RateOK   bool
	Hours    float64
	HoursOK  bool
}
