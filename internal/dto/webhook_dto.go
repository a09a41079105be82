package dto

// WhatsApp-Cloud-style webhook payload. Only the fields the assistant
// consumes are modeled.

type WebhookEvent struct {
	Object string         `json:"object" validate:"required"`
	Entry  []WebhookEntry `json:"entry" validate:"required,min=1,dive"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes" validate:"dive"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	Contacts []WebhookContact `json:"contacts"`
	Messages []WebhookMessage `json:"messages"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name   string `json:"name"`
		Locale string `json:"locale"`
	} `json:"profile"`
}

type WebhookMessage struct {
	From string `json:"from" validate:"required"`
	ID   string `json:"id"`
	// Type is not restricted here: platforms send kinds we do not model
	// (audio, sticker, reaction) and those must not fail the whole batch.
	Type string `json:"type" validate:"required"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Image *struct {
		ID string `json:"id"`
	} `json:"image"`
	Document *struct {
		ID string `json:"id"`
	} `json:"document"`
}

// InboundMessage is the normalized event published onto the internal bus,
// one per webhook message.
type InboundMessage struct {
	EventID      string `json:"event_id"`
	UserID       string `json:"user_id"`
	Kind         string `json:"kind"` // "text" | "image" | "document"
	Text         string `json:"text"`
	MediaID      string `json:"media_id"`
	PlatformLang string `json:"platform_lang"`
}

// Message kinds.
const (
	KindText     = "text"
	KindImage    = "image"
	KindDocument = "document"
)

type KnowledgeStatsResponse struct {
	Documents  []string `json:"documents"`
	ChunkCount int      `json:"chunk_count"`
	LastBuild  string   `json:"last_build"`
}
