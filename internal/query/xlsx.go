package query

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ExportXLSX writes a query result to an XLSX workbook with a full region
// sheet plus the top/bottom ranking sheets. Exporting an empty result is an
// error; callers check Result.Empty first.
func ExportXLSX(res *Result, path string) error {
	if res == nil || res.Empty {
		return eris.New("query: nothing to export for an empty result")
	}

	file := xlsx.NewFile()

	regionSheet, err := file.AddSheet("Regions")
	if err != nil {
		return eris.Wrap(err, "query: add regions sheet")
	}
	header := regionSheet.AddRow()
	for _, h := range []string{"GEOID", "County", "Access_Score"} {
		header.AddCell().Value = h
	}
	for _, r := range res.Regions {
		row := regionSheet.AddRow()
		row.AddCell().Value = r.RegionID
		row.AddCell().Value = r.CountyLabel
		row.AddCell().SetFloat(r.AccessScore)
	}

	if err := addRankingSheet(file, "Top", res.Top); err != nil {
		return err
	}
	if err := addRankingSheet(file, "Bottom", res.Bottom); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "query: save workbook %s", path)
	}
	return nil
}

func addRankingSheet(file *xlsx.File, name string, rows []Ranked) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "query: add %s sheet", name)
	}
	header := sheet.AddRow()
	for _, h := range []string{"GEOID", "County", "Access_Score"} {
		header.AddCell().Value = h
	}
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.RegionID
		row.AddCell().Value = r.CountyLabel
		row.AddCell().SetFloat(r.AccessScore)
	}
	return nil
}
