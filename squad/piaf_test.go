package squad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func piafArticles() []PIAFArticle {
	return []PIAFArticle{
		{
			DisplayTitle: "Voltaire",
			Audience:     Restricted,
			Category:     "Histoire",
			Paragraphs: []PIAFParagraph{
				{
					Text: "Voltaire a écrit Candide en 1759.",
					Questions: []PIAFQuestion{
						{Text: "Quand Candide a-t-il été écrit ?", Answers: []PIAFAnswer{{Text: "1759"}}},
						// at offset 0, dropped
						{Text: "Qui a écrit Candide ?", Answers: []PIAFAnswer{{Text: "Voltaire"}}},
						{Text: "Quoi ?", Answers: []PIAFAnswer{{Text: "absent"}}},
					},
				},
				{
					Text:      "Paragraphe sans question.",
					Questions: nil,
				},
			},
		},
		// repeated title
		{DisplayTitle: "Voltaire", Audience: Restricted, Category: "Histoire", Paragraphs: []PIAFParagraph{{Text: "a b"}}},
		{
			DisplayTitle: "Paris",
			Audience:     "public",
			Category:     "Géographie",
			Paragraphs: []PIAFParagraph{{
				Text:      "Paris est la capitale de la France.",
				Questions: []PIAFQuestion{{Text: "De quoi Paris est-elle la capitale ?", Answers: []PIAFAnswer{{Text: "la France"}}}},
			}},
		},
	}
}

func TestFromPIAFRestricted(t *testing.T) {
	ds, stats := FromPIAF(piafArticles(), true)

	require.Len(t, ds.Data, 1)
	a := ds.Data[0]
	assert.Equal(t, "Voltaire", a.Title)
	require.Len(t, a.Paragraphs, 1)
	require.Len(t, a.Paragraphs[0].QAs, 1)

	qa := a.Paragraphs[0].QAs[0]
	assert.Equal(t, "0", qa.Id)
	assert.Equal(t, []Answer{{AnswerStart: 28, Text: "1759"}}, qa.Answers)

	assert.Equal(t, ConvertStats{Paragraphs: 2, Questions: 1, Mistakes: 2}, stats)
}

func TestFromPIAFPublic(t *testing.T) {
	ds, stats := FromPIAF(piafArticles(), false)

	require.Len(t, ds.Data, 1)
	assert.Equal(t, "Paris", ds.Data[0].Title)
	qa := ds.Data[0].Paragraphs[0].QAs[0]
	assert.Equal(t, 25, qa.Answers[0].AnswerStart)
	assert.Equal(t, 1, stats.Questions)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, map[string]int{"Histoire": 2}, Categories(piafArticles(), false))
	assert.Equal(t, map[string]int{"Histoire": 1}, Categories(piafArticles(), true))
}

func TestLoadPIAF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piaf.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"displaytitle": "T", "audience": "restricted", "categorie": "C", "paragraphs": []}]`), 0o644))

	articles, err := LoadPIAF(path)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "C", articles[0].Category)
}
