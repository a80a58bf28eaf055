package anthropic

const (
	defaultAPIURL   = "https://api.anthropic.com/v1"
	defaultModel    = "claude-sonnet-4-20250514"
	anthropicAPIVer = "2023-06-01"
)
