package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the worksheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// Workbook is a single worksheet of an xlsx file.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// New creates an empty workbook whose only worksheet is named sheet.
func New(sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to name worksheet %q: %w", sheet, err)
		}
	}
	return &Workbook{file: f, sheet: sheet}, nil
}

// Open opens the workbook at path. If the file does not exist a new workbook is returned;
// it is only written to disk by SaveFile.
func Open(path, sheet string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return New(sheet)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return attach(f, sheet)
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, sheet string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return attach(f, sheet)
}

func attach(f *excelize.File, sheet string) (*Workbook, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to look up worksheet %q: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create worksheet %q: %w", sheet, err)
		}
	}
	return &Workbook{file: f, sheet: sheet}, nil
}

// Sheet returns the name of the worksheet the grid operates on.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// GetCell returns the stored value of a cell. Number formats are not applied, so a key
// typed as 1234 and displayed as "1,234" still reads as "1234".
func (w *Workbook) GetCell(ctx context.Context, row, col int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return w.file.GetCellValue(w.sheet, name, excelize.Options{RawCellValue: true})
}

// SetCell writes value as a string cell.
func (w *Workbook) SetCell(ctx context.Context, row, col int, value string) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.file.SetCellStr(w.sheet, name, value)
}

// GetRowValues returns cells colStart..colEnd of row.
func (w *Workbook) GetRowValues(ctx context.Context, row, colStart, colEnd int) ([]string, error) {
	if colEnd < colStart {
		return nil, fmt.Errorf("invalid column span %d..%d", colStart, colEnd)
	}
	values := make([]string, 0, colEnd-colStart+1)
	for col := colStart; col <= colEnd; col++ {
		v, err := w.GetCell(ctx, row, col)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the workbook to path, replacing any existing file atomically.
func (w *Workbook) SaveFile(path string) error {
	data, err := w.Bytes()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook's resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}
