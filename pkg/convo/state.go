package convo

// Turn is one entry in the rolling conversation history.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

// Profile holds the numeric parameters remembered for a user across turns.
// Fields are set once observed and retained until an explicit reset.
type Profile struct {
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	HoursPerWeek *float64 `json:"hours_per_week,omitempty"`
}

// State is the per-user mutable conversation record. It is created lazily
// on first contact and lives only for the lifetime of the process.
type State struct {
	UserID       string  `json:"user_id"`
	LanguageCode string  `json:"language_code"` // two-letter code or ""
	History      []Turn  `json:"history"`
	Profile      Profile `json:"profile"`
	LastTopic    string  `json:"last_topic"` // e.g. "salary", keeps short follow-ups in context
	LastKbQuery  string  `json:"last_kb_query"`
	LastBotText  string  `json:"last_bot_text"`
	LastUserText string  `json:"last_user_text"`

	historyLimit int
}

const defaultHistoryLimit = 8

// NewState creates an empty record for a user.
func NewState(userID string, historyLimit int) *State {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &State{
		UserID:       userID,
		historyLimit: historyLimit,
	}
}

// AppendTurn pushes a turn onto the history, evicting the oldest entries
// once the bound is exceeded (FIFO).
func (s *State) AppendTurn(role, text string) {
	limit := s.historyLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	s.History = append(s.History, Turn{Role: role, Text: text})
	if len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// Reset clears the remembered profile and topic but keeps the language;
// the user should not have to re-teach the bot which language they speak.
func (s *State) Reset() {
	s.Profile = Profile{}
	s.LastTopic = ""
	s.LastKbQuery = ""
	s.LastBotText = ""
	s.LastUserText = ""
	s.History = nil
}
