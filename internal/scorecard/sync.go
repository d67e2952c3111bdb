// Package scorecard manages the rubric outside the evaluation path:
// Notion sync plus YAML import/export.
package scorecard

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/pkg/notion"
)

// Notion property names for the criteria and zero-tolerance databases.
const (
	propID       = "ID"
	propName     = "Nome"
	propCategory = "Categoria"
	propWeight   = "Peso"
	propRule     = "Regra"
)

// SyncFromNotion pulls the rubric and the NCG rule list from their Notion
// databases. Rows without an ID or name are skipped with a log line rather
// than aborting the whole sync.
func SyncFromNotion(ctx context.Context, c notion.Client, criteriaDB, zeroTolerDB string) (model.Rubric, []model.ZeroToleranceRule, error) {
	sorted := &notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{Property: propID, Direction: notionapi.SortOrderASC}},
	}

	pages, err := notion.QueryAll(ctx, c, criteriaDB, sorted)
	if err != nil {
		return nil, nil, eris.Wrap(err, "scorecard: fetch criteria")
	}
	rubric := criteriaFromPages(pages)

	pages, err = notion.QueryAll(ctx, c, zeroTolerDB, sorted)
	if err != nil {
		return nil, nil, eris.Wrap(err, "scorecard: fetch zero-tolerance rules")
	}
	rules := rulesFromPages(pages)

	zap.L().Info("scorecard: synced from notion",
		zap.Int("criteria", len(rubric)),
		zap.Int("zero_tolerance", len(rules)),
	)
	return rubric, rules, nil
}

func criteriaFromPages(pages []notionapi.Page) model.Rubric {
	var rubric model.Rubric
	for _, page := range pages {
		c := model.Criterion{
			ID:          notion.RichTextValue(page, propID),
			Name:        notion.TitleValue(page, propName),
			Category:    notion.SelectValue(page, propCategory),
			Description: notion.RichTextValue(page, propRule),
			Weight:      int(notion.NumberValue(page, propWeight)),
		}
		if c.ID == "" || c.Name == "" {
			zap.L().Warn("scorecard: skipping criteria row without id or name",
				zap.String("page", string(page.ID)),
			)
			continue
		}
		rubric = append(rubric, c)
	}
	return rubric
}

func rulesFromPages(pages []notionapi.Page) []model.ZeroToleranceRule {
	var rules []model.ZeroToleranceRule
	for _, page := range pages {
		r := model.ZeroToleranceRule{
			ID:          notion.RichTextValue(page, propID),
			Name:        notion.TitleValue(page, propName),
			Description: notion.RichTextValue(page, propRule),
		}
		if r.ID == "" || r.Name == "" {
			zap.L().Warn("scorecard: skipping zero-tolerance row without id or name",
				zap.String("page", string(page.ID)),
			)
			continue
		}
		rules = append(rules, r)
	}
	return rules
}
