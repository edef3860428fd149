package cellstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cell is one stored grid cell.
type Cell struct {
	Sheet string `gorm:"primaryKey;size:128"`
	Row   int    `gorm:"primaryKey;column:row_num;autoIncrement:false"`
	Col   int    `gorm:"primaryKey;column:col_num;autoIncrement:false"`
	Value string `gorm:"type:text"`
}

// TableName pins the table name regardless of naming strategy.
func (Cell) TableName() string {
	return "grid_cells"
}

// Store is a grid backed by the grid_cells table, scoped to one sheet name.
type Store struct {
	db    *gorm.DB
	sheet string
	inTx  bool
}

// New returns a Store for sheet.
func New(db *gorm.DB, sheet string) *Store {
	return &Store{db: db, sheet: sheet}
}

// Sheet returns the sheet name the store is scoped to.
func (s *Store) Sheet() string {
	return s.sheet
}

// Migrate creates or updates the grid_cells table.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database not connected")
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&Cell{}); err != nil {
		return fmt.Errorf("failed to migrate grid_cells: %w", err)
	}
	return nil
}

// Exists reports whether the grid_cells table has been created.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, errors.New("database not connected")
	}
	return s.db.WithContext(ctx).Migrator().HasTable(&Cell{}), nil
}

// GetCell returns the value at (row, col), or "" if the cell was never written.
func (s *Store) GetCell(ctx context.Context, row, col int) (string, error) {
	var cells []Cell
	err := s.db.WithContext(ctx).
		Where("sheet = ? AND row_num = ? AND col_num = ?", s.sheet, row, col).
		Limit(1).
		Find(&cells).Error
	if err != nil {
		return "", fmt.Errorf("failed to read cell (%d,%d): %w", row, col, err)
	}
	if len(cells) == 0 {
		return "", nil
	}
	return cells[0].Value, nil
}

// GetRowValues returns cells colStart..colEnd of row in one query.
func (s *Store) GetRowValues(ctx context.Context, row, colStart, colEnd int) ([]string, error) {
	if colEnd < colStart {
		return nil, fmt.Errorf("invalid column span %d..%d", colStart, colEnd)
	}

	var cells []Cell
	err := s.db.WithContext(ctx).
		Where("sheet = ? AND row_num = ? AND col_num BETWEEN ? AND ?", s.sheet, row, colStart, colEnd).
		Find(&cells).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d: %w", row, err)
	}

	values := make([]string, colEnd-colStart+1)
	for _, c := range cells {
		values[c.Col-colStart] = c.Value
	}
	return values, nil
}

// SetCell upserts a single cell.
func (s *Store) SetCell(ctx context.Context, row, col int, value string) error {
	if err := upsert(s.db.WithContext(ctx), Cell{Sheet: s.sheet, Row: row, Col: col, Value: value}); err != nil {
		return fmt.Errorf("failed to write cell (%d,%d): %w", row, col, err)
	}
	return nil
}

// WriteRow upserts the non-nil values of one row inside a transaction.
func (s *Store) WriteRow(ctx context.Context, row, colStart int, values []*string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, v := range values {
			if v == nil {
				continue
			}
			if err := upsert(tx, Cell{Sheet: s.sheet, Row: row, Col: colStart + i, Value: *v}); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		return nil
	})
}

// Begin starts a transaction and returns a Store bound to it.
func (s *Store) Begin(ctx context.Context) (*Store, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &Store{db: tx, sheet: s.sheet, inTx: true}, nil
}

// Commit commits a Store returned by Begin.
func (s *Store) Commit() error {
	if !s.inTx {
		return errors.New("store is not in a transaction")
	}
	return s.db.Commit().Error
}

// Rollback discards a Store returned by Begin.
func (s *Store) Rollback() error {
	if !s.inTx {
		return errors.New("store is not in a transaction")
	}
	return s.db.Rollback().Error
}

func upsert(db *gorm.DB, cell Cell) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sheet"}, {Name: "row_num"}, {Name: "col_num"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&cell).Error
}
