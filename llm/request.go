package llm

import "github.com/tidwall/sjson"

// buildRequestBody composes the provider-specific JSON request body
// (spec §4.G). sjson.Set performs standard JSON string escaping, which
// covers the required `"`, `\`, `\n`, `\r`, `\t`, and <0x20 escaping.
func buildRequestBody(cfg Config, system, userContent string) string {
	body := "{}"
	body, _ = sjson.Set(body, "model", cfg.model())
	body, _ = sjson.Set(body, "max_tokens", cfg.maxTokens())

	if cfg.isAnthropic() {
		body, _ = sjson.Set(body, "system", system)
		body, _ = sjson.Set(body, "messages.0.role", "user")
		body, _ = sjson.Set(body, "messages.0.content", userContent)
		return body
	}

	body, _ = sjson.Set(body, "messages.0.role", "system")
	body, _ = sjson.Set(body, "messages.0.content", system)
	body, _ = sjson.Set(body, "messages.1.role", "user")
	body, _ = sjson.Set(body, "messages.1.content", userContent)
	return body
}
