package services

import (
	"hash/fnv"

	"solace/models"
)

// A NEGATIVE sentiment at or above this confidence gets the stronger
// grounding reply, below it the lighter check-in reply.
const strongNegativeThreshold = 0.7

const (
	strongNegativeReply = "That sounds really tough, and it's completely okay to feel this way. " +
		"You don't have to handle everything at once. Maybe try a small grounding step: " +
		"take 3 slow breaths (in 4s, hold 4s, out 6s). If you'd like, we can break the situation " +
		"into smaller parts together. What part feels heaviest right now?"

	mildNegativeReply = "I hear some heaviness in what you shared. You're not alone. " +
		"What would feel most supportive for you right now—venting, problem-solving, or a simple check-in?"

	positiveReply = "I love the hopeful energy here. That's a strength you can build on. " +
		"What helped you get to this point today? Maybe we can note a small win to carry forward."

	neutralReply = "Thanks for sharing. I'm here with you. " +
		"If you'd like, I can offer a gentle prompt: what's one small action that could make the next hour " +
		"a bit easier?"
)

// Two reply variants per emotion, picked by hashing the message text.
var emotionReplies = map[string][]string{
	models.EmotionSadness: {
		"It sounds really heavy. It's okay to feel sad. A tiny step like writing down one worry or taking a 2‑minute stretch can help. What feels smallest to try?",
		"I’m hearing a lot of weight in this. You deserve gentleness right now. Could a short break with some music or a warm drink help even 1%?",
	},
	models.EmotionAnger: {
		"That anger makes sense if things feel unfair. Want to try a 10‑second pause—inhale 4, hold 4, exhale 6—then we can sort what’s in your control?",
		"Your feelings are valid. We can channel this energy. Would listing the top 1–2 triggers help us plan a next step?",
	},
	models.EmotionFear: {
		"When worry spikes, your body is trying to protect you. Let’s ground: name 5 things you see, 4 you feel, 3 you hear. I’m with you.",
		"Anxiety can feel loud. Let’s shrink the moment: what’s the next tiny action (30 seconds or less) you could take?",
	},
	models.EmotionDisgust: {
		"Feeling turned off or disappointed can be protective. If you zoom out, is there a boundary you’d like to set to feel safer?",
		"It’s okay to step back from what doesn’t feel right. What would a kinder environment look like for you today?",
	},
	models.EmotionSurprise: {
		"That’s a lot to take in at once. Want to unpack it together, one small piece at a time?",
		"Unexpected moments can shake us. What’s one thing you know for sure right now?",
	},
	models.EmotionNeutral: {
		"Thanks for sharing. I’m here with you. What’s one small action that could make the next hour a bit easier?",
		"I’m listening. If you’d like, we can choose between venting, problem‑solving, or a simple check‑in.",
	},
	models.EmotionJoy: {
		"I love the hopeful energy here. What helped you get to this point today? Let’s note a small win to carry forward.",
		"That spark matters. What would help you keep this momentum for the next hour?",
	},
}

var groundingTips = []string{
	"Mini reset: inhale 4, hold 4, exhale 6.",
	"Micro‑action: sip water and roll your shoulders.",
	"Grounding: name 5 things you can see right now.",
	"30‑second pause: look out a window or step away from the screen.",
}

// SelectReply deterministically maps one message to its canned reply.
// The label picks the template, confidence splits NEGATIVE into a strong
// and a mild variant, and crisis language appends the helpline block to
// whichever template was picked. Same input always yields the same
// string.
func SelectReply(label string, score float64, text string) string {
	base := labelReply(label, score)
	if DetectCrisis(text) {
		return base + "\n\n" + crisisReply
	}
	return base
}

func labelReply(label string, score float64) string {
	switch label {
	case models.SentimentNegative:
		if score >= strongNegativeThreshold {
			return strongNegativeReply
		}
		return mildNegativeReply
	case models.SentimentPositive:
		return positiveReply
	}

	// NEUTRAL or anything else
	return neutralReply
}

// selectEmotionReply picks one of the variants for the emotion; unknown
// emotions fall back to the neutral variants.
func selectEmotionReply(emotion, text string) string {
	variants, ok := emotionReplies[emotion]
	if !ok {
		variants = emotionReplies[models.EmotionNeutral]
	}
	return variants[variantIndex(text, len(variants))]
}

func selectTip(text string) string {
	return groundingTips[variantIndex(text, len(groundingTips))]
}

// variantIndex hashes the message so the same text always lands on the
// same variant.
func variantIndex(text string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(text))
	return int(h.Sum32() % uint32(n))
}

func isLowMood(emotion string) bool {
	switch emotion {
	case models.EmotionSadness, models.EmotionAnger, models.EmotionFear, models.EmotionDisgust:
		return true
	}
	return false
}
