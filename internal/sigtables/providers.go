package sigtables

// CallKind distinguishes the shape of an integration call site
type CallKind string

const (
	// CallChat is a chat/messages style completion call
	CallChat CallKind = "chat"
	// CallCompletion is a bare text completion call
	CallCompletion CallKind = "completion"
	// CallEmbedding is an embedding request
	CallEmbedding CallKind = "embedding"
	// CallGenerate is a single-shot generate call (Gemini-style)
	CallGenerate CallKind = "generate"
)

// CallPattern describes one recognizable call form for a provider SDK.
// Pattern is matched as plain text against a source line. RequiresClient
// distinguishes method calls on a bound client variable from purely
// functional call forms, which are verified against imported symbols instead.
type CallPattern struct {
	Pattern        string
	Method         string
	Kind           CallKind
	RequiresClient bool
}

// ProviderSignature describes a known AI-provider SDK: the packages that
// import it, the client classes that bind it, and the call patterns that
// anchor argument extraction.
type ProviderSignature struct {
	Provider      string   // canonical provider name
	SDK           string   // SDK/package family name
	Packages      []string // import/require package names
	ClientClasses []string // constructor class names
	Patterns      []CallPattern
}

// Providers is the master call-tracer signature table
var Providers = []ProviderSignature{
	{
		Provider:      "openai",
		SDK:           "openai-node",
		Packages:      []string{"openai", "@openai/api"},
		ClientClasses: []string{"OpenAI", "OpenAIApi", "AzureOpenAI"},
		Patterns: []CallPattern{
			{Pattern: ".chat.completions.create(", Method: "chat.completions.create", Kind: CallChat, RequiresClient: true},
			{Pattern: ".completions.create(", Method: "completions.create", Kind: CallCompletion, RequiresClient: true},
			{Pattern: ".embeddings.create(", Method: "embeddings.create", Kind: CallEmbedding, RequiresClient: true},
			{Pattern: ".responses.create(", Method: "responses.create", Kind: CallChat, RequiresClient: true},
			{Pattern: ".images.generate(", Method: "images.generate", Kind: CallGenerate, RequiresClient: true},
		},
	},
	{
		Provider:      "anthropic",
		SDK:           "anthropic-sdk",
		Packages:      []string{"@anthropic-ai/sdk", "anthropic"},
		ClientClasses: []string{"Anthropic", "AnthropicBedrock", "AnthropicVertex"},
		Patterns: []CallPattern{
			{Pattern: ".messages.create(", Method: "messages.create", Kind: CallChat, RequiresClient: true},
			{Pattern: ".messages.stream(", Method: "messages.stream", Kind: CallChat, RequiresClient: true},
			{Pattern: ".completions.create(", Method: "completions.create", Kind: CallCompletion, RequiresClient: true},
		},
	},
	{
		Provider:      "google",
		SDK:           "generative-ai",
		Packages:      []string{"@google/generative-ai", "@google-cloud/vertexai", "google-generativeai"},
		ClientClasses: []string{"GoogleGenerativeAI", "VertexAI", "GenerativeModel"},
		Patterns: []CallPattern{
			{Pattern: ".generateContent(", Method: "generateContent", Kind: CallGenerate, RequiresClient: true},
			{Pattern: ".generateContentStream(", Method: "generateContentStream", Kind: CallGenerate, RequiresClient: true},
			{Pattern: ".startChat(", Method: "startChat", Kind: CallChat, RequiresClient: true},
			{Pattern: ".embedContent(", Method: "embedContent", Kind: CallEmbedding, RequiresClient: true},
		},
	},
	{
		Provider:      "mistral",
		SDK:           "mistralai",
		Packages:      []string{"@mistralai/mistralai", "mistralai"},
		ClientClasses: []string{"Mistral", "MistralClient"},
		Patterns: []CallPattern{
			{Pattern: ".chat.complete(", Method: "chat.complete", Kind: CallChat, RequiresClient: true},
			{Pattern: ".chat.stream(", Method: "chat.stream", Kind: CallChat, RequiresClient: true},
			{Pattern: ".embeddings.create(", Method: "embeddings.create", Kind: CallEmbedding, RequiresClient: true},
		},
	},
	{
		Provider:      "cohere",
		SDK:           "cohere-ai",
		Packages:      []string{"cohere-ai", "cohere"},
		ClientClasses: []string{"CohereClient", "CohereClientV2"},
		Patterns: []CallPattern{
			{Pattern: ".chat(", Method: "chat", Kind: CallChat, RequiresClient: true},
			{Pattern: ".generate(", Method: "generate", Kind: CallCompletion, RequiresClient: true},
			{Pattern: ".embed(", Method: "embed", Kind: CallEmbedding, RequiresClient: true},
		},
	},
	{
		Provider:      "ollama",
		SDK:           "ollama-js",
		Packages:      []string{"ollama"},
		ClientClasses: []string{"Ollama"},
		Patterns: []CallPattern{
			{Pattern: "ollama.chat(", Method: "chat", Kind: CallChat, RequiresClient: false},
			{Pattern: "ollama.generate(", Method: "generate", Kind: CallCompletion, RequiresClient: false},
			{Pattern: ".chat(", Method: "chat", Kind: CallChat, RequiresClient: true},
		},
	},
	{
		Provider:      "vercel-ai",
		SDK:           "ai-sdk",
		Packages:      []string{"ai", "@ai-sdk/openai", "@ai-sdk/anthropic", "@ai-sdk/google"},
		ClientClasses: []string{},
		Patterns: []CallPattern{
			{Pattern: "generateText(", Method: "generateText", Kind: CallCompletion, RequiresClient: false},
			{Pattern: "streamText(", Method: "streamText", Kind: CallCompletion, RequiresClient: false},
			{Pattern: "generateObject(", Method: "generateObject", Kind: CallGenerate, RequiresClient: false},
			{Pattern: "embed(", Method: "embed", Kind: CallEmbedding, RequiresClient: false},
		},
	},
}

// ProviderByName returns the signature for a canonical provider name
func ProviderByName(name string) (*ProviderSignature, bool) {
	for i := range Providers {
		if Providers[i].Provider == name {
			return &Providers[i], true
		}
	}
	return nil, false
}

// ProviderForPackage returns the provider signature owning a package name
func ProviderForPackage(pkg string) (*ProviderSignature, bool) {
	for i := range Providers {
		for _, p := range Providers[i].Packages {
			if p == pkg {
				return &Providers[i], true
			}
		}
	}
	return nil, false
}
