package compscreen

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected FileType
	}{
		{"comps.csv", FileTypeCSV},
		{"comps.tsv", FileTypeTSV},
		{"comps.xlsx", FileTypeXLSX},
		{"comps.parquet", FileTypeParquet},
		{"comps.csv.gz", FileTypeCSV},
		{"comps.tsv.bz2", FileTypeTSV},
		{"comps.csv.xz", FileTypeCSV},
		{"comps.csv.zst", FileTypeCSV},
		{"COMPS.CSV", FileTypeCSV},
		{"comps.txt", FileTypeUnsupported},
		{"comps", FileTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := DetectFileType(tt.path); got != tt.expected {
				t.Errorf("DetectFileType(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestLoadReaderCSV(t *testing.T) {
	t.Parallel()

	csvData := "Ticker,Revenue,Gross Margin\nAAPL,394328,0.43\nMSFT,211915,0.69\nSNOW,2806,\n"

	ds, err := LoadReader(strings.NewReader(csvData), FileTypeCSV)
	require.NoError(t, err)
	require.Equal(t, []string{"Ticker", "Revenue", "Gross Margin"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	// Numeric cells become native numbers, empty cells become Null.
	if !ds.Rows[0].Get("Revenue").IsNumber() {
		t.Error("numeric cell should parse to a native number")
	}
	if ds.Rows[0].Get("Ticker").IsNumber() {
		t.Error("ticker cell should stay a string")
	}
	if !ds.Rows[2].Get("Gross Margin").IsNull() {
		t.Error("empty cell should be null")
	}
}

func TestLoadReaderTSV(t *testing.T) {
	t.Parallel()

	tsvData := "Ticker\tRevenue\nAAPL\t394328\n"
	ds, err := LoadReader(strings.NewReader(tsvData), FileTypeTSV)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)

	rev, ok := ds.Rows[0].Get("Revenue").Float()
	require.True(t, ok)
	require.Equal(t, 394328.0, rev)
}

func TestLoadReaderShortRecordsPad(t *testing.T) {
	t.Parallel()

	csvData := "A,B,C\n1,2\n"
	ds, err := LoadReader(strings.NewReader(csvData), FileTypeCSV)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	if !ds.Rows[0].Get("C").IsNull() {
		t.Error("short record should pad trailing columns with nulls")
	}
}

func TestLoadReaderDuplicateColumns(t *testing.T) {
	t.Parallel()

	csvData := "Ticker,Revenue,Revenue\nAAPL,1,2\n"
	_, err := LoadReader(strings.NewReader(csvData), FileTypeCSV)
	require.Error(t, err)
	require.ErrorIs(t, err, errDuplicateColumnName)
}

func TestLoadReaderEmpty(t *testing.T) {
	t.Parallel()

	_, err := LoadReader(strings.NewReader(""), FileTypeCSV)
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadFileCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "comps.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ticker,EV/Rev\nAAPL,7.2\n"), 0o600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
}

func TestLoadFileGzipCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "comps.csv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("Ticker,Revenue\nAAPL,394328\nMSFT,211915\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	require.Equal(t, []string{"Ticker", "Revenue"}, ds.Columns)
}

func TestLoadFileXLSX(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "comps.xlsx")

	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	require.NoError(t, x.SetSheetRow(sheet, "A1", &[]any{"Ticker", "EBITDA Margin"}))
	require.NoError(t, x.SetSheetRow(sheet, "A2", &[]any{"AAPL", 0.31}))
	require.NoError(t, x.SetSheetRow(sheet, "A3", &[]any{"MSFT", 0.49}))
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Ticker", "EBITDA Margin"}, ds.Columns)
	require.Len(t, ds.Rows, 2)

	margin, ok := ds.Rows[0].Get("EBITDA Margin").Float()
	require.True(t, ok)
	require.InDelta(t, 0.31, margin, 1e-9)
}

func TestLoadFileUnsupported(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("comps.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseParquetEmpty(t *testing.T) {
	t.Parallel()

	_, err := LoadReader(strings.NewReader(""), FileTypeParquet)
	require.ErrorIs(t, err, ErrEmptyFile)
}

// writeTestParquet builds a three-column comparables table with one null
// cell and serializes it to Parquet bytes.
func writeTestParquet(t *testing.T) []byte {
	t.Helper()

	pool := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "Ticker", Type: arrow.BinaryTypes.String},
		{Name: "Revenue", Type: arrow.PrimitiveTypes.Int64},
		{Name: "Gross Margin", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).AppendValues(
		[]string{"AAPL", "MSFT", "SNOW"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues(
		[]int64{394000, 245000, 3600}, nil)
	builder.Field(2).(*array.Float64Builder).AppendValues(
		[]float64{0.43, 0.69, 0}, []bool{true, true, false})

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(table, &buf, 1024,
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestLoadReaderParquet(t *testing.T) {
	t.Parallel()

	data := writeTestParquet(t)
	ds, err := LoadReader(bytes.NewReader(data), FileTypeParquet)
	require.NoError(t, err)

	require.Equal(t, []string{"Ticker", "Revenue", "Gross Margin"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	// String column stays textual.
	require.Equal(t, "AAPL", ds.Rows[0].Get("Ticker").Text())

	// Integer column arrives as a native number, not numeric-looking text.
	rev := ds.Rows[1].Get("Revenue")
	require.True(t, rev.IsNumber())
	f, ok := rev.Float()
	require.True(t, ok)
	require.InDelta(t, 245000, f, 0)

	// Float column keeps its fraction value; the null cell comes back Null.
	margin, ok := ds.Rows[0].Get("Gross Margin").Float()
	require.True(t, ok)
	require.InDelta(t, 0.43, margin, 1e-12)
	require.True(t, ds.Rows[2].Get("Gross Margin").IsNull())
}

func TestLoadFileParquet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "comps.parquet")
	require.NoError(t, os.WriteFile(path, writeTestParquet(t), 0600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 3)

	// The snapshot pipeline sees native numerics from Parquet: a margin
	// column of fractions classifies as fraction-scaled percentages.
	snap := NewSnapshot(ds.Columns, ds.Rows)
	require.Equal(t, FormatPercentageDecimal, snap.Formats()["Gross Margin"])
}

func TestArrowValueKinds(t *testing.T) {
	t.Parallel()
	pool := memory.NewGoAllocator()

	t.Run("int32", func(t *testing.T) {
		t.Parallel()
		b := array.NewInt32Builder(pool)
		defer b.Release()
		b.Append(42)
		b.AppendNull()
		arr := b.NewInt32Array()
		defer arr.Release()

		v := arrowValue(arr, 0)
		require.True(t, v.IsNumber())
		f, _ := v.Float()
		require.InDelta(t, 42, f, 0)
		require.True(t, arrowValue(arr, 1).IsNull())
	})

	t.Run("uint16", func(t *testing.T) {
		t.Parallel()
		b := array.NewUint16Builder(pool)
		defer b.Release()
		b.Append(7)
		arr := b.NewUint16Array()
		defer arr.Release()

		f, ok := arrowValue(arr, 0).Float()
		require.True(t, ok)
		require.InDelta(t, 7, f, 0)
	})

	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		b := array.NewFloat32Builder(pool)
		defer b.Release()
		b.Append(1.5)
		arr := b.NewFloat32Array()
		defer arr.Release()

		f, ok := arrowValue(arr, 0).Float()
		require.True(t, ok)
		require.InDelta(t, 1.5, f, 0)
	})

	t.Run("large string", func(t *testing.T) {
		t.Parallel()
		b := array.NewLargeStringBuilder(pool)
		defer b.Release()
		b.Append("Software")
		arr := b.NewLargeStringArray()
		defer arr.Release()

		require.Equal(t, "Software", arrowValue(arr, 0).Text())
	})

	t.Run("boolean falls back to string form", func(t *testing.T) {
		t.Parallel()
		b := array.NewBooleanBuilder(pool)
		defer b.Release()
		b.Append(true)
		arr := b.NewBooleanArray()
		defer arr.Release()

		require.Equal(t, "true", arrowValue(arr, 0).Text())
	})
}

func TestIsSupportedFile(t *testing.T) {
	t.Parallel()

	if !IsSupportedFile("a.csv.zst") {
		t.Error("compressed csv should be supported")
	}
	if IsSupportedFile("a.json") {
		t.Error("json should not be supported")
	}
}
