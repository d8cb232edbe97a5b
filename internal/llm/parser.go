package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseClassification extracts the fixed JSON response shape from raw model
// output. Models occasionally wrap the JSON in a markdown code fence despite
// instructions; the wrapper is stripped before parsing.
func parseClassification(content string) (ClassificationResponse, error) {
	content = cleanMarkdownWrapper(content)

	var resp ClassificationResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if resp.Category == "" {
		return ClassificationResponse{}, fmt.Errorf("no category found in response")
	}

	if resp.Confidence < 0 {
		resp.Confidence = 0
	}
	if resp.Confidence > 1 {
		resp.Confidence = 1
	}

	return resp, nil
}

// cleanMarkdownWrapper strips a ```json ... ``` fence if present.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
