package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches all pages from a Notion database, handling pagination.
// Rate limiting is enforced by the Client (3 req/s by default).
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}

		next := &notionapi.DatabaseQueryRequest{StartCursor: resp.NextCursor}
		if filter != nil {
			next.Filter = filter.Filter
			next.Sorts = filter.Sorts
			next.PageSize = filter.PageSize
		}
		req = next
	}

	return all, nil
}

// Property extraction helpers. Notion property values are deeply nested;
// these flatten the shapes this application reads.

// TitleValue returns the plain text of a title property, or "".
func TitleValue(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	return richTextPlain(title.Title)
}

// RichTextValue returns the plain text of a rich_text property, or "".
func RichTextValue(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	rt, ok := prop.(*notionapi.RichTextProperty)
	if !ok {
		return ""
	}
	return richTextPlain(rt.RichText)
}

// NumberValue returns the value of a number property, or 0.
func NumberValue(page notionapi.Page, name string) float64 {
	prop, ok := page.Properties[name]
	if !ok {
		return 0
	}
	num, ok := prop.(*notionapi.NumberProperty)
	if !ok {
		return 0
	}
	return num.Number
}

// SelectValue returns the selected option name of a select property, or "".
func SelectValue(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	sel, ok := prop.(*notionapi.SelectProperty)
	if !ok {
		return ""
	}
	return sel.Select.Name
}

func richTextPlain(parts []notionapi.RichText) string {
	var out string
	for _, p := range parts {
		out += p.PlainText
	}
	return out
}
