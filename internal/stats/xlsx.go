package stats

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX exports the snapshot as a workbook with one sheet per section.
func WriteXLSX(path string, s Statistics) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Resumo")
	if err != nil {
		return eris.Wrap(err, "stats: add summary sheet")
	}
	headerRow(summary, "Métrica", "Valor")
	statRow(summary, "Interações", s.TotalInteractions)
	statRow(summary, "Avaliadas", s.EvaluatedCount)
	statRow(summary, "Nota média", s.AverageScore)

	categories, err := f.AddSheet("Categorias")
	if err != nil {
		return eris.Wrap(err, "stats: add categories sheet")
	}
	headerRow(categories, "Categoria", "Pontos", "Máximo", "%")
	for _, c := range s.Categories {
		row := categories.AddRow()
		row.AddCell().SetString(c.Category)
		row.AddCell().SetInt(c.PointsEarned)
		row.AddCell().SetInt(c.MaxPoints)
		row.AddCell().SetInt(c.Percentage)
	}

	pareto, err := f.AddSheet("Pareto")
	if err != nil {
		return eris.Wrap(err, "stats: add pareto sheet")
	}
	headerRow(pareto, "ID", "Critério", "Falhas", "Acumulado", "Acumulado %", "Vital")
	for _, e := range s.Failures {
		vital := "não"
		if e.Vital {
			vital = "sim"
		}
		row := pareto.AddRow()
		row.AddCell().SetString(e.CriterionID)
		row.AddCell().SetString(e.Name)
		row.AddCell().SetInt(e.Count)
		row.AddCell().SetInt(e.Cumulative)
		row.AddCell().SetInt(e.CumulativePct)
		row.AddCell().SetString(vital)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "stats: save workbook %s", path)
	}
	return nil
}

func headerRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func statRow(sheet *xlsx.Sheet, label string, value int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(value)
}
