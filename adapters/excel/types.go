package excel

// ExcelData is a tabular file as read from disk. Rows keep the header order so
// that positional column pairing survives the read.
type ExcelData struct {
	Headers []string   // Column headers, index column removed
	Rows    [][]string // Data rows, each len(Headers) wide
}

// ColumnIndex returns the position of header, or -1
func (d *ExcelData) ColumnIndex(header string) int {
	for i, h := range d.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// ReaderConfig controls how a file is read
type ReaderConfig struct {
	FilePath string
	// Sheet is the worksheet read from xlsx files. Empty means the first sheet.
	Sheet string
	// DropIndexColumn discards the leading row-index column written by dataframe exports
	DropIndexColumn bool
}

// DefaultReaderConfig returns the settings used for the upstream metrics export
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{
		FilePath:        path,
		DropIndexColumn: true,
	}
}
