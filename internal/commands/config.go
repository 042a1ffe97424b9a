package commands

// CommonConfig contains configuration common to all commands
type CommonConfig struct {
	// DataDir is the path to the data directory
	DataDir string `help:"Path to data directory" default:"./data"`
	// LogLevel is the logging level to use
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
}

// EmbeddingConfig contains common flag definitions for embedding configuration
type EmbeddingConfig struct {
	// Provider is the embedding provider to use
	Provider string `help:"Embedding provider to use" default:"ollama" enum:"openai,ollama,lmstudio,gemini" env:"EMBEDDING_PROVIDER"`
	// OpenAIAPIKey is the API key for OpenAI embeddings
	OpenAIAPIKey string `help:"OpenAI API key" env:"OPENAI_API_KEY"`
	// OpenAIModel is the OpenAI embedding model name
	OpenAIModel string `help:"OpenAI embedding model name" default:"text-embedding-3-small" env:"OPENAI_EMBEDDING_MODEL"`
	// OpenAIEndpoint overrides the OpenAI API endpoint
	OpenAIEndpoint string `help:"OpenAI-compatible API endpoint" env:"OPENAI_ENDPOINT"`
	// OllamaModel is the Ollama embedding model name
	OllamaModel string `help:"Ollama embedding model name" default:"nomic-embed-text" env:"OLLAMA_EMBEDDING_MODEL"`
	// OllamaEndpoint is the Ollama OpenAI-compatible endpoint
	OllamaEndpoint string `help:"Ollama endpoint" default:"http://localhost:11434/v1" env:"OLLAMA_ENDPOINT"`
	// LMStudioModel is the LMStudio embedding model name
	LMStudioModel string `help:"LMStudio embedding model name" env:"LMSTUDIO_EMBEDDING_MODEL"`
	// LMStudioEndpoint is the LMStudio OpenAI-compatible endpoint
	LMStudioEndpoint string `help:"LMStudio endpoint" default:"http://localhost:1234/v1" env:"LMSTUDIO_ENDPOINT"`
	// GeminiAPIKey is the API key for Gemini
	GeminiAPIKey string `help:"Google Gemini API key" env:"GEMINI_API_KEY"`
	// GeminiModel is the Gemini embedding model name
	GeminiModel string `help:"Gemini embedding model name" env:"GEMINI_EMBEDDING_MODEL"`
}

// LLMConfig contains flag definitions for the condition-extraction model
type LLMConfig struct {
	// LLMAPIKey is the API key for the chat completion endpoint
	LLMAPIKey string `help:"API key for the extraction model" env:"LLM_API_KEY"`
	// LLMModel is the model used for condition extraction
	LLMModel string `help:"Model used for condition extraction" default:"meta-llama/llama-3.1-8b-instruct" env:"LLM_MODEL"`
	// LLMEndpoint is the OpenAI-compatible chat endpoint
	LLMEndpoint string `help:"OpenAI-compatible chat endpoint" default:"https://openrouter.ai/api/v1" env:"LLM_ENDPOINT"`
}

// VocabularyConfig locates the externally maintained keyword list and glossary
type VocabularyConfig struct {
	// KeywordsFile is the official keyword ability list, one per line
	KeywordsFile string `help:"Path to the official keyword list" default:"./data/keywords.txt"`
	// GlossaryFile is the domain glossary used to enrich extraction prompts
	GlossaryFile string `help:"Path to the domain glossary" default:"./data/glossary.json"`
}
