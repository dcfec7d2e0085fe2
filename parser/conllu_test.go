package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/qadiv/sentence"
)

const conllu = `# sent_id = 1
# text = Qui a écrit ce livre ?
1	Qui	qui	PRON	_	PronType=Int	3	nsubj	_	_
2	a	avoir	AUX	_	Mood=Ind	3	aux:tense	_	_
3	écrit	écrire	VERB	_	VerbForm=Part	0	root	_	_
4	ce	ce	DET	_	_	5	det	_	_
5	livre	livre	NOUN	_	Gender=Masc	3	obj	_	_
6	?	?	PUNCT	_	_	3	punct	_	_

# sent_id = 2
# text = Il parle du livre.
1	Il	il	PRON	_	_	2	nsubj	_	_
2	parle	parler	VERB	_	_	0	root	_	_
3-4	du	_	_	_	_	_	_	_	_
3	de	de	ADP	_	_	5	case	_	_
4	le	le	DET	_	_	5	det	_	_
5	livre	livre	NOUN	_	_	2	obl	_	_
5.1	x	x	X	_	_	_	_	_	_
6	.	.	PUNCT	_	_	2	punct	_	_`

func TestReadCoNLLU(t *testing.T) {
	c, err := ReadCoNLLU(strings.NewReader(conllu))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	tokens, err := c.Parse(context.Background(), "Qui a écrit ce livre ?")
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	assert.Equal(t, sent.Token{Id: 0, Head: 2, Pos: "PRON", Dep: "nsubj", Tag: "PronType=Int", Idx: 0, Text: "Qui", Lemma: "qui"}, tokens[0])
	assert.True(t, tokens[2].IsRoot())
	assert.Equal(t, 2, tokens[2].Head)
	assert.Equal(t, 4, tokens[3].Head)
	assert.Equal(t, 6, tokens[2].Idx)
	assert.Equal(t, 21, tokens[5].Idx)
}

func TestReadCoNLLUMultiword(t *testing.T) {
	c, err := ReadCoNLLU(strings.NewReader(conllu))
	require.NoError(t, err)

	tokens, err := c.Parse(context.Background(), "Il parle du livre.")
	require.NoError(t, err)
	assert.Equal(t, []string{"il", "parler", "de", "le", "livre", "."}, sent.Lemmas(tokens))
	// syntactic words of a contraction are not in the text
	assert.Equal(t, -1, tokens[2].Idx)
	assert.Equal(t, 17, tokens[5].Idx)
}

func TestCoNLLUNotFound(t *testing.T) {
	c, err := ReadCoNLLU(strings.NewReader(conllu))
	require.NoError(t, err)

	_, err = c.Parse(context.Background(), "Inconnu.")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoNLLUEach(t *testing.T) {
	c, err := ReadCoNLLU(strings.NewReader(conllu))
	require.NoError(t, err)

	var got []string
	err = c.Each(func(text string, tokens []sent.Token) error {
		got = append(got, text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Qui a écrit ce livre ?", "Il parle du livre."}, got)
}

func TestReadCoNLLUInvalid(t *testing.T) {
	_, err := ReadCoNLLU(strings.NewReader("1\tQui\tqui\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = ReadCoNLLU(strings.NewReader("x\tQui\tqui\tPRON\t_\t_\t0\troot\t_\t_\n"))
	assert.ErrorContains(t, err, "invalid id")
}
