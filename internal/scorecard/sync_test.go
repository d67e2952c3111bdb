package scorecard

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotion serves canned pages per database id, with one page of results.
type fakeNotion struct {
	pages map[string][]notionapi.Page
}

func (f *fakeNotion) QueryDatabase(_ context.Context, dbID string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: f.pages[dbID]}, nil
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: s}}
}

func criteriaPage(id, name, category, rule string, weight float64) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID("page-" + id),
		Properties: notionapi.Properties{
			"ID":        &notionapi.RichTextProperty{RichText: richText(id)},
			"Nome":      &notionapi.TitleProperty{Title: richText(name)},
			"Categoria": &notionapi.SelectProperty{Select: notionapi.Option{Name: category}},
			"Regra":     &notionapi.RichTextProperty{RichText: richText(rule)},
			"Peso":      &notionapi.NumberProperty{Number: weight},
		},
	}
}

func rulePage(id, name, rule string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID("page-" + id),
		Properties: notionapi.Properties{
			"ID":    &notionapi.RichTextProperty{RichText: richText(id)},
			"Nome":  &notionapi.TitleProperty{Title: richText(name)},
			"Regra": &notionapi.RichTextProperty{RichText: richText(rule)},
		},
	}
}

func TestSyncFromNotion(t *testing.T) {
	c := &fakeNotion{pages: map[string][]notionapi.Page{
		"crit-db": {
			criteriaPage("1.1", "Saudação", "Abertura", "Saudou no script.", 30),
			criteriaPage("2.1", "Empatia", "Diálogo", "Validou sentimento.", 70),
		},
		"ncg-db": {
			rulePage("ncg1", "Conduta Inadequada", "Falta de respeito."),
		},
	}}

	rubric, rules, err := SyncFromNotion(context.Background(), c, "crit-db", "ncg-db")
	require.NoError(t, err)

	require.Len(t, rubric, 2)
	assert.Equal(t, "1.1", rubric[0].ID)
	assert.Equal(t, "Abertura", rubric[0].Category)
	assert.Equal(t, 30, rubric[0].Weight)
	assert.True(t, rubric.IsBalanced())

	require.Len(t, rules, 1)
	assert.Equal(t, "Conduta Inadequada", rules[0].Name)
}

func TestSyncFromNotion_SkipsIncompleteRows(t *testing.T) {
	c := &fakeNotion{pages: map[string][]notionapi.Page{
		"crit-db": {
			criteriaPage("", "Sem ID", "Abertura", "x", 10),
			criteriaPage("1.1", "Completa", "Abertura", "y", 90),
		},
		"ncg-db": {},
	}}

	rubric, rules, err := SyncFromNotion(context.Background(), c, "crit-db", "ncg-db")
	require.NoError(t, err)
	require.Len(t, rubric, 1)
	assert.Equal(t, "1.1", rubric[0].ID)
	assert.Empty(t, rules)
}
