package openai

import (
	"fmt"

	"github.com/poiesic/waypoint/core"
)

const suggestionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "subtitle": {"type": "string"}
        },
        "required": ["title", "subtitle"],
        "additionalProperties": false
      }
    }
  },
  "required": ["suggestions"],
  "additionalProperties": false
}`

const suggestionPromptTemplate = `You complete partially typed place searches for a map application.
Given a partial query and the coordinates the user is looking at, suggest up to %d real places or
addresses the user is most likely typing, best match first.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "title" is the place or street name as it would appear on a map.
- "subtitle" is the locality and region, e.g. "Oakland, CA". Use "" when unknown.
- Prefer places close to the given coordinates.
- Every title must start with or contain the partial query, ignoring case.
- Do not invent places. If nothing plausible matches, return "suggestions": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Partial query: blue bott
Near: 37.7749, -122.4194"
Output:
{
  "suggestions": [
    {"title":"Blue Bottle Coffee","subtitle":"San Francisco, CA"},
    {"title":"Blue Bottle Coffee","subtitle":"Oakland, CA"}
  ]
}`

// buildSystemPrompt creates the system prompt with the suggestion cap embedded.
func buildSystemPrompt(maxSuggestions int) string {
	return fmt.Sprintf(suggestionPromptTemplate, maxSuggestions, suggestionResponseSchema)
}

// buildUserPrompt describes the fragment and search area.
func buildUserPrompt(fragment string, region core.Region) string {
	return fmt.Sprintf("Partial query: %s\nNear: %.4f, %.4f",
		fragment, region.Center.Latitude, region.Center.Longitude)
}
