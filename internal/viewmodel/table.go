// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package viewmodel

// Table column names, matching the TasteDive field names.
const (
	ColumnName     = "name"
	ColumnInfoURL  = "wUrl"
	ColumnVideoURL = "yUrl"
)

// Table is the Table tab: a column selection over the records.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ProjectTable selects the name column, plus both URL columns when showURLs
// is set. Values are copied as-is.
func ProjectTable(vm ViewModel, showURLs bool) Table {
	columns := []string{ColumnName}
	if showURLs {
		columns = append(columns, ColumnInfoURL, ColumnVideoURL)
	}

	rows := make([][]string, 0, vm.Len())
	for _, r := range vm.Records() {
		if showURLs {
			rows = append(rows, []string{r.Name, r.InfoURL, r.VideoURL})
		} else {
			rows = append(rows, []string{r.Name})
		}
	}

	return Table{Columns: columns, Rows: rows}
}
