package vocab

// RelatedTerm is one vocabulary item mentioned alongside the headword.
type RelatedTerm struct {
	Term         string `json:"term" binding:"required"`
	PartOfSpeech string `json:"type"`
	Meaning      string `json:"meaning"`
}

// Media carries optional external resources attached to a card.
type Media struct {
	ImageURL string `json:"image_url,omitempty"`
	VoiceURL string `json:"voice_url,omitempty"`
}

// Record is a structured vocabulary card. It is caller-supplied and treated
// as immutable input to composition.
type Record struct {
	Word               string        `json:"word" binding:"required"`
	PartOfSpeech       string        `json:"type" binding:"required"`
	Pronunciation      string        `json:"ipa"`
	Meaning            string        `json:"meaning" binding:"required"`
	Usage              string        `json:"usage"`
	Example            string        `json:"example"`
	ExampleTranslation string        `json:"example_meaning,omitempty"`
	Related            []RelatedTerm `json:"explanation,omitempty"`
	Media              Media         `json:"media"`
}
