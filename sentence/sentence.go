package sentence

// Doc is a parsed text as stored in a parse cache. Title holds the source
// text the tokens were produced from.
type Doc struct {
	Title  string
	Tokens [][]Token `json:"tokens"`
}

// Token represents a word of a parsed text, with POS and dependency metadata.
type Token struct {
	// The index of the token in the parsed text, starting at 0.
	Id int `json:"id"`

	// Id of the governing token. The root token points to itself.
	Head int    `json:"head"`
	Pos  string `json:"pos"`
	Dep  string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original text (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`
}

// IsRoot reports whether the token is the syntactic root of its sentence.
// spaCy marks the root with a head pointing to the token itself; other
// parsers use a negative head.
func (t Token) IsRoot() bool {
	return t.Head == t.Id || t.Head < 0
}

// Lemmas returns the lemmas of tokens in document order.
func Lemmas(tokens []Token) []string {
	lemmas := make([]string, 0, len(tokens))
	for _, t := range tokens {
		lemmas = append(lemmas, t.Lemma)
	}

	return lemmas
}
