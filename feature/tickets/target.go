package tickets

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"refraction/core/cellstore"
	"refraction/core/reconcile"
	"refraction/core/sheet"
	"refraction/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

const (
	BackendXLSX = "xlsx"
	BackendS3   = "s3"
	BackendSQL  = "sql"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrUnknownBackend is returned for a grid.backend value that is not supported.
var ErrUnknownBackend = errors.New("unknown grid backend")

// Target is an opened grid together with the step that persists it.
type Target interface {
	reconcile.Grid
	// Name describes where the grid lives, for logs and reports.
	Name() string
	// Commit persists the writes. In dry-run mode it discards them instead.
	Commit(ctx context.Context) error
	// Close releases the grid. Uncommitted writes are discarded.
	Close() error
}

// Backends holds the connections a target may need. Only the one matching
// GridConfig.Backend has to be set.
type Backends struct {
	Storage storage.Client
	Bucket  string
	DB      *gorm.DB
}

// OpenTarget opens the grid named by cfg.
func OpenTarget(ctx context.Context, cfg GridConfig, b Backends, dryRun bool) (Target, error) {
	switch cfg.Backend {
	case BackendXLSX, "":
		return openXLSX(cfg, dryRun)
	case BackendS3:
		return openS3(ctx, cfg, b, dryRun)
	case BackendSQL:
		return openSQL(ctx, cfg, b, dryRun)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// xlsxTarget is a workbook on the local filesystem.
type xlsxTarget struct {
	*sheet.Workbook
	path   string
	dryRun bool
}

func openXLSX(cfg GridConfig, dryRun bool) (*xlsxTarget, error) {
	if cfg.Path == "" {
		return nil, errors.New("grid.path is required for the xlsx backend")
	}
	wb, err := sheet.Open(cfg.Path, cfg.Sheet)
	if err != nil {
		return nil, err
	}
	return &xlsxTarget{Workbook: wb, path: cfg.Path, dryRun: dryRun}, nil
}

func (t *xlsxTarget) Name() string {
	return fmt.Sprintf("xlsx:%s!%s", t.path, t.Sheet())
}

func (t *xlsxTarget) Commit(ctx context.Context) error {
	if t.dryRun {
		return nil
	}
	return t.SaveFile(t.path)
}

// s3Target is a workbook object in the configured bucket.
type s3Target struct {
	*sheet.Workbook
	client storage.Client
	bucket string
	object string
	dryRun bool
}

func openS3(ctx context.Context, cfg GridConfig, b Backends, dryRun bool) (*s3Target, error) {
	if b.Storage == nil {
		return nil, errors.New("storage client is required for the s3 backend")
	}
	if cfg.Object == "" {
		return nil, errors.New("grid.object is required for the s3 backend")
	}

	t := &s3Target{client: b.Storage, bucket: b.Bucket, object: cfg.Object, dryRun: dryRun}

	_, err := b.Storage.StatObject(ctx, b.Bucket, cfg.Object, minio.StatObjectOptions{})
	switch {
	case storage.IsNotFound(err):
		t.Workbook, err = sheet.New(cfg.Sheet)
		if err != nil {
			return nil, err
		}
		return t, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stat %s/%s: %w", b.Bucket, cfg.Object, err)
	}

	obj, err := b.Storage.GetObject(ctx, b.Bucket, cfg.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", b.Bucket, cfg.Object, err)
	}
	defer obj.Close()

	t.Workbook, err = sheet.OpenReader(obj, cfg.Sheet)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *s3Target) Name() string {
	return fmt.Sprintf("s3:%s/%s!%s", t.bucket, t.object, t.Sheet())
}

func (t *s3Target) Commit(ctx context.Context) error {
	if t.dryRun {
		return nil
	}

	exists, err := t.client.BucketExists(ctx, t.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", t.bucket, err)
	}
	if !exists {
		if err := t.client.MakeBucket(ctx, t.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", t.bucket, err)
		}
	}

	data, err := t.Bytes()
	if err != nil {
		return err
	}
	_, err = t.client.PutObject(ctx, t.bucket, t.object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: xlsxContentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", t.bucket, t.object, err)
	}
	return nil
}

// sqlTarget is the grid_cells table. Every row write is its own transaction;
// a dry run wraps the whole run in one transaction that is rolled back.
type sqlTarget struct {
	*cellstore.Store
	tx *cellstore.Store
}

func openSQL(ctx context.Context, cfg GridConfig, b Backends, dryRun bool) (Target, error) {
	if b.DB == nil {
		return nil, errors.New("database connection is required for the sql backend")
	}

	store := cellstore.New(b.DB, cfg.Sheet)
	if dryRun {
		exists, err := store.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			// Nothing to read yet and a dry run must not create the table.
			scratch, err := newScratchTarget(sqlName(cfg.Sheet), cfg.Sheet)
			if err != nil {
				return nil, err
			}
			return scratch, nil
		}

		tx, err := store.Begin(ctx)
		if err != nil {
			return nil, err
		}
		return &sqlTarget{Store: tx, tx: tx}, nil
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return &sqlTarget{Store: store}, nil
}

func sqlName(sheet string) string {
	return fmt.Sprintf("sql:%s!%s", cellstore.Cell{}.TableName(), sheet)
}

func (t *sqlTarget) Name() string {
	return sqlName(t.Sheet())
}

func (t *sqlTarget) Commit(ctx context.Context) error {
	return t.Close()
}

func (t *sqlTarget) Close() error {
	if t.tx == nil {
		return nil
	}
	tx := t.tx
	t.tx = nil
	return tx.Rollback()
}

// scratchTarget is an empty in-memory worksheet that is never persisted.
type scratchTarget struct {
	*sheet.Workbook
	name string
}

func newScratchTarget(name, sheetName string) (*scratchTarget, error) {
	wb, err := sheet.New(sheetName)
	if err != nil {
		return nil, err
	}
	return &scratchTarget{Workbook: wb, name: name}, nil
}

func (t *scratchTarget) Name() string {
	return t.name
}

func (t *scratchTarget) Commit(ctx context.Context) error {
	return nil
}
