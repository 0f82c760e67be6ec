package compscreen

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// FileType represents supported comparables-sheet file types.
type FileType int

const (
	// FileTypeCSV represents CSV files
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV files
	FileTypeTSV
	// FileTypeXLSX represents Excel workbooks
	FileTypeXLSX
	// FileTypeParquet represents Parquet files
	FileTypeParquet
	// FileTypeUnsupported represents everything else
	FileTypeUnsupported
)

// Base file extensions.
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extXLSX    = ".xlsx"
	extParquet = ".parquet"
)

// Dataset is a parsed comparables sheet: an ordered column list and the
// rows keyed by those columns. It is the input to NewSnapshot.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// DetectFileType detects the file type from the extension, looking through
// a trailing compression extension.
func DetectFileType(path string) FileType {
	base := stripCompressionExt(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extXLSX:
		return FileTypeXLSX
	case extParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// IsSupportedFile reports whether the file name has a supported extension,
// compressed or not.
func IsSupportedFile(name string) bool {
	return DetectFileType(name) != FileTypeUnsupported
}

// LoadFile parses the comparables sheet at path into a Dataset. The format
// is chosen by extension; compressed files decompress transparently.
func LoadFile(path string) (*Dataset, error) {
	fileType := DetectFileType(path)
	if fileType == FileTypeUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, closeDecomp, err := DecompressReader(f, path)
	if err != nil {
		return nil, err
	}
	defer closeDecomp() //nolint:errcheck // decompressor teardown only

	return LoadReader(reader, fileType)
}

// LoadReader parses a comparables sheet of the given type from r. The
// first row (or the Parquet schema) supplies the column names; duplicate
// column names are rejected.
func LoadReader(r io.Reader, fileType FileType) (*Dataset, error) {
	switch fileType {
	case FileTypeCSV:
		return parseDelimited(r, ',')
	case FileTypeTSV:
		return parseDelimited(r, '\t')
	case FileTypeXLSX:
		return parseXLSX(r)
	case FileTypeParquet:
		return parseParquet(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// parseDelimited parses CSV/TSV content.
func parseDelimited(r io.Reader, delimiter rune) (*Dataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return datasetFromRecords(records[0], records[1:])
}

// parseXLSX parses the first sheet of an Excel workbook.
func parseXLSX(r io.Reader) (*Dataset, error) {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheets := xlsxFile.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := xlsxFile.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return datasetFromRecords(rows[0], rows[1:])
}

// parseParquet parses Parquet content. Parquet needs random access, so the
// reader is buffered into memory first.
func parseParquet(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	columns := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = field.Name
	}
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}

	var rows []Row
	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for i := range numRows {
			row := make(Row, len(columns))
			for j, col := range batch.Columns() {
				row[columns[j]] = arrowValue(col, i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading parquet records: %w", err)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// arrowValue converts one Arrow array element to a cell Value, keeping
// native numerics numeric.
func arrowValue(col arrow.Array, i int) Value {
	if col.IsNull(i) {
		return Null()
	}
	switch arr := col.(type) {
	case *array.Int8:
		return Number(float64(arr.Value(i)))
	case *array.Int16:
		return Number(float64(arr.Value(i)))
	case *array.Int32:
		return Number(float64(arr.Value(i)))
	case *array.Int64:
		return Number(float64(arr.Value(i)))
	case *array.Uint8:
		return Number(float64(arr.Value(i)))
	case *array.Uint16:
		return Number(float64(arr.Value(i)))
	case *array.Uint32:
		return Number(float64(arr.Value(i)))
	case *array.Uint64:
		return Number(float64(arr.Value(i)))
	case *array.Float32:
		return Number(float64(arr.Value(i)))
	case *array.Float64:
		return Number(arr.Value(i))
	case *array.String:
		return String(arr.Value(i))
	case *array.LargeString:
		return String(arr.Value(i))
	default:
		return String(col.ValueStr(i))
	}
}

// datasetFromRecords builds a Dataset from a header record and data
// records. Numeric-parseable cells become native numbers; short records pad
// with missing cells.
func datasetFromRecords(header []string, records [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = cellValue(record[i])
			} else {
				row[col] = Null()
			}
		}
		rows = append(rows, row)
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// cellValue converts a raw cell string from a parsed file into a Value.
// Strictly numeric cells become native numbers so the classifier can tell
// real numerics from numeric-looking text.
func cellValue(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}
	return String(trimmed)
}

// validateColumnNames checks for duplicate column names. Comparison is
// case-sensitive after trimming whitespace.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if seen[trimmed] {
			return fmt.Errorf("%w: %s", errDuplicateColumnName, col)
		}
		seen[trimmed] = true
	}
	return nil
}
