package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Webhook   WebhookConfig
	Ai        AIConfig
	Knowledge KnowledgeConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type WebhookConfig struct {
	VerifyToken   string
	GraphBaseURL  string
	AccessToken   string
	PhoneNumberID string
	InboundTopic  string
}

type AIConfig struct {
	LLMProvider    string // "ollama"
	LLMModel       string // e.g. "llama3", "qwen2.5"
	VisionModel    string // model used for OCR of images/documents
	OllamaBaseURL  string
	EmbeddingModel string // e.g. "nomic-embed-text"
}

type KnowledgeConfig struct {
	DocsDir       string
	ChunkSize     int
	ChunkOverlap  int
	EmbedBatch    int
	TopK          int
	ContextBudget int
}

type AssistantConfig struct {
	NativeLanguage  string // language the canned UI strings are written in
	DefaultLanguage string // fallback when detection fails
	HistoryLimit    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Webhook: WebhookConfig{
			VerifyToken:   getEnv("WEBHOOK_VERIFY_TOKEN", ""),
			GraphBaseURL:  getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v19.0"),
			AccessToken:   getEnv("GRAPH_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("GRAPH_PHONE_NUMBER_ID", ""),
			InboundTopic:  getEnv("INBOUND_MESSAGE_TOPIC_NAME", "INBOUND_MESSAGE"),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "llama3"),
			VisionModel:    getEnv("VISION_MODEL", "llava"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Knowledge: KnowledgeConfig{
			DocsDir:       getEnv("KNOWLEDGE_DOCS_DIR", "./docs"),
			ChunkSize:     getEnvAsInt("KNOWLEDGE_CHUNK_SIZE", 1200),
			ChunkOverlap:  getEnvAsInt("KNOWLEDGE_CHUNK_OVERLAP", 200),
			EmbedBatch:    getEnvAsInt("KNOWLEDGE_EMBED_BATCH", 32),
			TopK:          getEnvAsInt("KNOWLEDGE_TOP_K", 6),
			ContextBudget: getEnvAsInt("KNOWLEDGE_CONTEXT_BUDGET", 7000),
		},
		Assistant: AssistantConfig{
			NativeLanguage:  getEnv("NATIVE_LANGUAGE", "en"),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
			HistoryLimit:    getEnvAsInt("HISTORY_LIMIT", 8),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
