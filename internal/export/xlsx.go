// Package export writes enriched listings to spreadsheet reports and reads
// listing input files.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/model"
)

// EnrichedListing pairs a business listing with its discovery result.
type EnrichedListing struct {
	Listing model.Listing
	Result  model.DiscoveryResult
}

// sheetName is the single report sheet.
const sheetName = "Leads"

// baseHeaders precede the per-category name/designation column pairs.
var baseHeaders = []string{
	"Company", "Website", "Phone", "Address", "Contact Email", "Leadership Found",
}

// Headers returns the full report header row: base columns followed by a
// name/designation pair per leadership category, in fixed category order.
func Headers() []string {
	out := append([]string{}, baseHeaders...)
	for _, b := range model.Buckets {
		prefix := model.BucketPrefix[b]
		out = append(out, prefix+" - Name", prefix+" - Designation")
	}
	return out
}

// WriteXLSX writes enriched listings to an XLSX report at path.
func WriteXLSX(path string, listings []EnrichedListing) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Headers() {
		header.AddCell().Value = h
	}

	for _, e := range listings {
		row := sheet.AddRow()
		found := "No"
		if e.Result.LeadershipFound {
			found = "Yes"
		}
		cells := []string{
			e.Listing.Name,
			e.Listing.Website,
			e.Listing.Phone,
			e.Listing.Address,
			e.Result.Email,
			found,
		}
		cells = append(cells, e.Result.Management.Flatten()...)
		for _, c := range cells {
			row.AddCell().Value = c
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// ReadListings reads business listings from the first sheet of an XLSX
// input file. The header row is matched case-insensitively; only a company
// name column is required.
func ReadListings(path string) ([]model.Listing, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("export: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(sheet.Rows[0])
	col := func(key string) int {
		if i, ok := idx[key]; ok {
			return i
		}
		return -1
	}
	nameCol := col("company")
	if nameCol < 0 {
		nameCol = col("name")
	}
	if nameCol < 0 {
		return nil, eris.Errorf("export: %s missing a Company column", path)
	}

	var listings []model.Listing
	for _, row := range sheet.Rows[1:] {
		l := model.Listing{
			Name:    cellAt(row, nameCol),
			Website: cellAt(row, col("website")),
			Phone:   cellAt(row, col("phone")),
			Address: cellAt(row, col("address")),
		}
		if l.Name == "" && l.Website == "" {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func headerIndex(row *xlsx.Row) map[string]int {
	idx := make(map[string]int, len(row.Cells))
	for i, cell := range row.Cells {
		key := strings.ToLower(strings.TrimSpace(cell.String()))
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

func cellAt(row *xlsx.Row, i int) string {
	if i < 0 || i >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[i].String())
}
