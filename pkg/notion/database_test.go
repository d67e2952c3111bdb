package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedClient returns one page per call and reports HasMore until the
// batches run out, recording the cursors it was asked for.
type pagedClient struct {
	batches [][]notionapi.Page
	cursors []notionapi.Cursor
	call    int
}

func (c *pagedClient) QueryDatabase(_ context.Context, _ string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	c.cursors = append(c.cursors, req.StartCursor)
	batch := c.batches[c.call]
	c.call++
	return &notionapi.DatabaseQueryResponse{
		Results:    batch,
		HasMore:    c.call < len(c.batches),
		NextCursor: notionapi.Cursor("cursor-" + string(rune('0'+c.call))),
	}, nil
}

func TestQueryAll_Paginates(t *testing.T) {
	c := &pagedClient{batches: [][]notionapi.Page{
		{{ID: "a"}, {ID: "b"}},
		{{ID: "c"}},
	}}

	pages, err := QueryAll(context.Background(), c, "db", nil)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, notionapi.ObjectID("c"), pages[2].ID)

	// Second request carries the cursor from the first response.
	require.Len(t, c.cursors, 2)
	assert.Empty(t, c.cursors[0])
	assert.Equal(t, notionapi.Cursor("cursor-1"), c.cursors[1])
}

func TestQueryAll_KeepsSortsAcrossPages(t *testing.T) {
	c := &pagedClient{batches: [][]notionapi.Page{{{ID: "a"}}, {{ID: "b"}}}}
	sorted := &notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{Property: "ID", Direction: notionapi.SortOrderASC}},
	}

	_, err := QueryAll(context.Background(), c, "db", sorted)
	require.NoError(t, err)
	assert.Equal(t, 2, c.call)
}

func TestPropertyHelpers(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			"Nome":      &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Sau"}, {PlainText: "dação"}}},
			"Regra":     &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "Saudou no script."}}},
			"Peso":      &notionapi.NumberProperty{Number: 30},
			"Categoria": &notionapi.SelectProperty{Select: notionapi.Option{Name: "Abertura"}},
		},
	}

	assert.Equal(t, "Saudação", TitleValue(page, "Nome"))
	assert.Equal(t, "Saudou no script.", RichTextValue(page, "Regra"))
	assert.Equal(t, float64(30), NumberValue(page, "Peso"))
	assert.Equal(t, "Abertura", SelectValue(page, "Categoria"))
}

func TestPropertyHelpers_MissingOrWrongType(t *testing.T) {
	page := notionapi.Page{Properties: notionapi.Properties{
		"Peso": &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "30"}}},
	}}

	assert.Empty(t, TitleValue(page, "Nome"))
	assert.Empty(t, RichTextValue(page, "Regra"))
	assert.Zero(t, NumberValue(page, "Peso")) // wrong type, not a number
	assert.Empty(t, SelectValue(page, "Categoria"))
}
