package services

import (
	"fmt"
	"strings"

	"github.com/agentciril/portfolio-chat/models"
)

const (
	noContextPlaceholder = "No specific information available. Please provide a general response."
	notProvided          = "Not provided"
	fallbackPersonaName  = "the person"
)

// BuildPromptContext assembles search results, the owner's profile, and
// recent chat turns into the structured prompt input. Every field of the
// result is populated; absent inputs render as their placeholders.
func BuildPromptContext(results *models.QueryResults, profile *models.Profile, history []models.ChatHistoryItem) models.PromptContext {
	return models.PromptContext{
		PersonaName:  personaName(profile),
		ProfileBlock: profileBlock(profile),
		HistoryBlock: historyBlock(history),
		ContextBlock: contextBlock(results),
	}
}

func contextBlock(results *models.QueryResults) string {
	if results.Len() == 0 {
		return noContextPlaceholder
	}
	var sb strings.Builder
	for i, doc := range results.Documents {
		subcategory, _ := results.Metadatas[i]["subcategory"].(string)
		sb.WriteString(fmt.Sprintf("%s: %s\n\n", strings.ToUpper(subcategory), doc))
	}
	return sb.String()
}

// personaName resolves the name the bot speaks as: the profile's name field,
// else a token extracted from a bio of the form "... I am <name> ...", else
// a generic fallback. Bio tokens of two characters or fewer are rejected so
// articles like "a" or "an" never become the persona.
func personaName(profile *models.Profile) string {
	if profile == nil {
		return fallbackPersonaName
	}
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	if _, after, found := strings.Cut(profile.Bio, "I am "); found {
		fields := strings.Fields(after)
		if len(fields) > 0 {
			token := strings.TrimRight(fields[0], ",.;:!?")
			if len(token) > 2 {
				return token
			}
		}
	}
	return fallbackPersonaName
}

func profileBlock(profile *models.Profile) string {
	var p models.Profile
	if profile != nil {
		p = *profile
	}
	return fmt.Sprintf(
		"NAME: %s\nLOCATION: %s\nBIO: %s\nSKILLS: %s\nEXPERIENCE: %s\nPROJECTS: %s\nINTERESTS: %s",
		orNotProvided(p.Name),
		orNotProvided(p.Location),
		orNotProvided(p.Bio),
		orNotProvided(p.Skills),
		orNotProvided(p.Experience),
		orNotProvided(p.Projects),
		orNotProvided(p.Interests),
	)
}

func historyBlock(history []models.ChatHistoryItem) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("PREVIOUS CONVERSATION:\n")
	for _, turn := range history {
		if turn.Sender == models.SenderUser {
			sb.WriteString("Visitor: " + turn.Message + "\n")
		} else {
			sb.WriteString("You: " + turn.Response + "\n")
		}
	}
	return sb.String()
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return notProvided
	}
	return value
}
