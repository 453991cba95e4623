package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"agentchat/internal/guild"
)

// GuildRecommendationToolDefinition defines the guild_recommendation tool
var GuildRecommendationToolDefinition = ToolDefinition{
	Name: "guild_recommendation",
	Description: `Analyze what the user said about themselves and recommend guilds to join, or suggest creating one.
Pass the user's own words. The tool infers level ("level 12"), years of experience ("3 years experience"),
skills, interests, leadership and activity level, then returns the best matching guilds with a match score.`,
	InputSchema: GuildRecommendationInputSchema,
	Function:    RecommendGuilds,
}

// GuildRecommendationInput defines the input parameters for the guild_recommendation tool
type GuildRecommendationInput struct {
	Message string `json:"message" jsonschema_description:"The user's description of themselves, their skills and what they are looking for."`
}

// GuildRecommendationInputSchema is the JSON schema for the guild_recommendation tool
var GuildRecommendationInputSchema = GenerateSchema[GuildRecommendationInput]()

// RecommendGuilds implements the guild_recommendation tool functionality
func RecommendGuilds(input json.RawMessage) (string, error) {
	in := GuildRecommendationInput{}
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("failed to parse tool input: %w", err)
	}
	if strings.TrimSpace(in.Message) == "" {
		return "", fmt.Errorf("message parameter is required")
	}

	profile := guild.ExtractProfile(in.Message)
	return guild.Recommend(profile, guild.Catalog).Summary(), nil
}
