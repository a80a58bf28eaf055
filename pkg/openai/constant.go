package openai

const (
	defaultAPIURL = "https://api.openai.com/v1"
	defaultModel  = "gpt-4o"
)
