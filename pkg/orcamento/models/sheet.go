package models

// SheetData is the raw cell grid of one worksheet.
type SheetData struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Rows are the cell values, each row padded to the sheet width.
	Rows [][]string `json:"rows,omitempty"`
}

// WorkbookData is a workbook-level container with its sheets in file order.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds the worksheets in the order they appear in the file.
	Sheets []SheetData `json:"sheets"`
}

// SheetNames returns the sheet names in file order.
func (w *WorkbookData) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet returns the sheet with the given name.
func (w *WorkbookData) Sheet(name string) (SheetData, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetData{}, false
}
