package models

// Flashcard categories
const (
	CategoryFood      = "food"
	CategoryTravel    = "travel"
	CategoryGreetings = "greetings"
	CategoryNumbers   = "numbers"
	CategoryShopping  = "shopping"
	CategoryCommon    = "common"
)

// FlashcardCategories lists every category the generator accepts.
var FlashcardCategories = []string{
	CategoryFood, CategoryTravel, CategoryGreetings, CategoryNumbers, CategoryShopping, CategoryCommon,
}

// Chat scenarios
const (
	ScenarioRestaurant = "restaurant"
	ScenarioMarket     = "market"
	ScenarioTaxi       = "taxi"
	ScenarioHotel      = "hotel"
	ScenarioShopping   = "shopping"
)

// StartConversationMessage opens a new chat session.
const StartConversationMessage = "[START CONVERSATION]"

// BreakdownWord is one segmented word of a sentence
type BreakdownWord struct {
	Thai         string `json:"thai" validate:"required"`
	Romanization string `json:"romanization"`
	POS          string `json:"pos"`
	English      string `json:"english"`
}

// WordOrderEntry aligns a Thai word with its literal English gloss
type WordOrderEntry struct {
	English      string `json:"english"`
	Thai         string `json:"thai"`
	Romanization string `json:"romanization"`
	POS          string `json:"pos"`
}

// StructureComparison contrasts Thai and English word order
type StructureComparison struct {
	English   string           `json:"english"`
	Literal   string           `json:"literal"`
	WordOrder []WordOrderEntry `json:"wordOrder"`
}

// Breakdown is the word-by-word analysis of a sentence
type Breakdown struct {
	InputWasThai         bool                `json:"inputWasThai"`
	ThaiSentence         string              `json:"thaiSentence" validate:"required"`
	SentenceRomanization string              `json:"sentenceRomanization"`
	Words                []BreakdownWord     `json:"words" validate:"required,min=1,dive"`
	FullTranslation      string              `json:"fullTranslation"`
	StructureComparison  StructureComparison `json:"structureComparison"`
}

// FlashcardDeck is a generated set of vocabulary cards
type FlashcardDeck struct {
	Words []FlashcardWord `json:"words" validate:"required,dive"`
}

// ToneWord is one word in a tone set
type ToneWord struct {
	Thai            string `json:"thai" validate:"required"`
	Romanization    string `json:"romanization"`
	Tone            Tone   `json:"tone" validate:"required,tone"`
	Meaning         string `json:"meaning"`
	ToneExplanation string `json:"toneExplanation"`
}

// ToneSet groups words sharing a base sound but differing by tone
type ToneSet struct {
	BaseSound string     `json:"baseSound"`
	Words     []ToneWord `json:"words"`
}

// ToneSetList is the tone generator payload
type ToneSetList struct {
	Sets []ToneSet `json:"sets" validate:"required"`
}

// ChatReply is one tutor turn in a conversation
type ChatReply struct {
	Thai         string   `json:"thai" validate:"required"`
	Romanization string   `json:"romanization"`
	English      string   `json:"english"`
	Correction   *string  `json:"correction"`
	Suggestions  []string `json:"suggestions"`
}

// ChatMessage is one message of the conversation history
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}
