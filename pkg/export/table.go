package export

// Table defines tabular export content. Rows are positional and must match
// the column count.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
