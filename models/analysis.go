package models

// Sentiment labels produced by the sentiment classifier
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Emotion labels produced by the emotion classifier
const (
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionDisgust  = "disgust"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
	EmotionJoy      = "joy"
)

// SentimentResult holds the top sentiment label for one message
type SentimentResult struct {
	Label string  `json:"label"` // "POSITIVE", "NEGATIVE" or "NEUTRAL"
	Score float64 `json:"score"`
}

// EmotionResult holds the top emotion label for one message
type EmotionResult struct {
	Label string  `json:"label"` // lowercase, e.g. "sadness", "joy"
	Score float64 `json:"score"`
}

// Analysis is the complete outcome of analyzing one user message
type Analysis struct {
	MessageID string          `json:"messageId"`
	Reply     string          `json:"reply"`
	Sentiment SentimentResult `json:"sentiment"`
	Emotion   EmotionResult   `json:"emotion"`
	Crisis    bool            `json:"crisis"`
	Tip       string          `json:"tip,omitempty"`
	Meta      string          `json:"meta"`
	CreatedAt int64           `json:"createdAt"`
}

// HelplineResource is one entry of the crisis resource directory
type HelplineResource struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Region  string `json:"region"`
}
