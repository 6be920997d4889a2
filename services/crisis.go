package services

import (
	"strings"

	"solace/models"
)

// crisisTerms are matched as case-insensitive substrings of the raw
// message.
var crisisTerms = []string{
	"suicide",
	"kill myself",
	"end my life",
	"can't go on",
	"cant go on",
	"self harm",
	"self-harm",
	"hurt myself",
	"harm myself",
	"ending it",
	"no reason to live",
	"hopeless",
}

const crisisReply = "I'm really sorry you're feeling this way. Your life matters and you deserve support. " +
	"If you're in immediate danger, please call your local emergency number (e.g., 112/911/999).\n\n" +
	"You can reach a crisis line right now:\n" +
	"- International: https://findahelpline.com/\n" +
	"- India: AASRA +91-9820466726 | https://aasra.info/\n" +
	"- US: 988 Suicide & Crisis Lifeline (call/text 988) | https://988lifeline.org/\n\n" +
	"I'm here to listen. Would you like to tell me a little more about what's on your mind?"

// Disclaimer is shown next to the helpline directory.
const Disclaimer = "This is a supportive chatbot that uses sentiment analysis to tailor responses. " +
	"It is not medical advice. For emergencies, call your local emergency number."

// DetectCrisis reports whether the message contains crisis language.
// Matching is local and needs no classifier call.
func DetectCrisis(text string) bool {
	t := strings.ToLower(text)
	for _, term := range crisisTerms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}

// CrisisResources returns the helpline directory served by the resources
// endpoint and embedded in the crisis reply.
func CrisisResources() []models.HelplineResource {
	return []models.HelplineResource{
		{Name: "Find a Helpline", Contact: "https://findahelpline.com/", Region: "International"},
		{Name: "AASRA", Contact: "+91-9820466726 | https://aasra.info/", Region: "India"},
		{Name: "988 Suicide & Crisis Lifeline", Contact: "call/text 988 | https://988lifeline.org/", Region: "US"},
	}
}
