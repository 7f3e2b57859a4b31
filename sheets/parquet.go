package sheets

import (
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
)

// CellRow is one numeric cell of a result table in long format. Row and
// Column are the labels from the first column and the header row.
type CellRow struct {
	Sheet  string  `parquet:"sheet"`
	Row    string  `parquet:"row"`
	Column string  `parquet:"column"`
	Value  float64 `parquet:"value"`
}

// LongRows flattens the numeric body cells of the sheets. Header row and
// label column are used as keys, non-numeric cells are skipped.
func LongRows(sheets []Sheet) []CellRow {
	var out []CellRow
	for _, s := range sheets {
		if len(s.Rows) == 0 {
			continue
		}
		header := s.Rows[0]
		for _, row := range s.Rows[1:] {
			if len(row) == 0 {
				continue
			}
			label := FormatCell(row[0])
			for c := 1; c < len(row); c++ {
				v, ok := row[c].(float64)
				if !ok {
					continue
				}
				var column string
				if c < len(header) {
					column = FormatCell(header[c])
				}
				out = append(out, CellRow{Sheet: s.Name, Row: label, Column: column, Value: v})
			}
		}
	}
	return out
}

func WriteParquet(path string, sheets []Sheet) (err error) {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := output.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	schema := parquet.SchemaOf(new(CellRow))
	writer := parquet.NewGenericWriter[CellRow](output, schema, parquet.Compression(&parquet.Snappy))

	rows := LongRows(sheets)
	logrus.Infof("Writing %d cells to %s", len(rows), path)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	return writer.Close()
}
