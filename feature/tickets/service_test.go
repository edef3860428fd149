package tickets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"refraction/core/lighthouse"
	"refraction/core/reconcile"
	"refraction/core/sheet"
	"refraction/feature/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const twoTickets = `<?xml version="1.0" encoding="UTF-8"?>
<tickets type="array">
  <ticket>
    <number type="integer">1</number>
    <title>A</title>
  </ticket>
  <ticket>
    <number type="integer">2</number>
    <title>B</title>
  </ticket>
</tickets>`

const renamedTicket = `<?xml version="1.0" encoding="UTF-8"?>
<tickets type="array">
  <ticket>
    <number type="integer">1</number>
    <Title>A renamed</Title>
  </ticket>
</tickets>`

// lighthouseServer serves body for every tickets.xml request.
func lighthouseServer(t *testing.T, status int, body string) lighthouse.Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := lighthouse.NewClient(lighthouse.Config{Endpoint: srv.URL, ProjectID: "55411", Token: "secret"})
	require.NoError(t, err)
	return client
}

func xlsxGrid(t *testing.T) tickets.GridConfig {
	t.Helper()
	return tickets.GridConfig{
		Backend:  tickets.BackendXLSX,
		Path:     filepath.Join(t.TempDir(), "tickets.xlsx"),
		Sheet:    "Tickets",
		Origin:   "A1",
		KeyField: "number",
	}
}

func readCells(t *testing.T, path, ref string) string {
	t.Helper()
	wb, err := sheet.Open(path, "Tickets")
	require.NoError(t, err)
	defer wb.Close()

	origin, err := reconcile.ParseOrigin(ref)
	require.NoError(t, err)
	v, err := wb.GetCell(context.Background(), origin.Row, origin.Col)
	require.NoError(t, err)
	return v
}

func TestService_ImportXLSX(t *testing.T) {
	grid := xlsxGrid(t)
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	report, err := svc.Import(context.Background(), "state:open", false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, []string{"number", "title"}, report.Fields)
	assert.Equal(t, []string{"number", "title"}, report.Columns)
	assert.Equal(t, 2, report.Appended)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 2, report.FirstRow)
	assert.Equal(t, 3, report.LastRow)
	assert.Equal(t, "A1", report.Origin)
	assert.Contains(t, report.Target, "xlsx:")
	assert.NotEmpty(t, report.Duration)

	assert.Equal(t, "number", readCells(t, grid.Path, "A1"))
	assert.Equal(t, "title", readCells(t, grid.Path, "B1"))
	assert.Equal(t, "1", readCells(t, grid.Path, "A2"))
	assert.Equal(t, "A", readCells(t, grid.Path, "B2"))
	assert.Equal(t, "2", readCells(t, grid.Path, "A3"))
	assert.Equal(t, "B", readCells(t, grid.Path, "B3"))
}

func TestService_ImportUpdatesInPlace(t *testing.T) {
	grid := xlsxGrid(t)

	first := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())
	_, err := first.Import(context.Background(), "", false)
	require.NoError(t, err)

	second := tickets.NewService(lighthouseServer(t, http.StatusOK, renamedTicket), grid, tickets.Backends{}, zap.NewNop())
	report, err := second.Import(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Appended)
	assert.Equal(t, "A renamed", readCells(t, grid.Path, "B2"))
	assert.Equal(t, "2", readCells(t, grid.Path, "A3"))
	assert.Equal(t, "", readCells(t, grid.Path, "A4"))
}

func TestService_ImportDryRun(t *testing.T) {
	grid := xlsxGrid(t)
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	report, err := svc.Import(context.Background(), "", true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Appended)

	_, err = os.Stat(grid.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestService_ImportErrors(t *testing.T) {
	t.Run("Transport", func(t *testing.T) {
		grid := xlsxGrid(t)
		svc := tickets.NewService(lighthouseServer(t, http.StatusServiceUnavailable, ""), grid, tickets.Backends{}, nil)
		report, err := svc.Import(context.Background(), "", false)
		assert.Nil(t, report)
		assert.True(t, errors.Is(err, lighthouse.ErrTransport))

		_, err = os.Stat(grid.Path)
		assert.True(t, os.IsNotExist(err), "grid must not be touched")
	})

	t.Run("Parse", func(t *testing.T) {
		grid := xlsxGrid(t)
		svc := tickets.NewService(lighthouseServer(t, http.StatusOK, "<html><body>login</body></html>"), grid, tickets.Backends{}, nil)
		_, err := svc.Import(context.Background(), "", false)
		assert.True(t, errors.Is(err, lighthouse.ErrParse))

		_, err = os.Stat(grid.Path)
		assert.True(t, os.IsNotExist(err), "grid must not be touched")
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		grid := xlsxGrid(t)
		grid.Backend = "csv"
		svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, nil)
		_, err := svc.Import(context.Background(), "", false)
		assert.True(t, errors.Is(err, tickets.ErrUnknownBackend))
	})

	t.Run("InvalidOrigin", func(t *testing.T) {
		grid := xlsxGrid(t)
		grid.Origin = "not-a-cell"
		svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, nil)
		_, err := svc.Import(context.Background(), "", false)
		assert.Error(t, err)
	})
}

func TestService_ImportRowLimitKeepsWrittenRows(t *testing.T) {
	grid := xlsxGrid(t)
	grid.MaxRows = 2
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	report, err := svc.Import(context.Background(), "", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reconcile.ErrRowLimit))
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Appended)

	assert.Equal(t, "1", readCells(t, grid.Path, "A2"))
	assert.Equal(t, "", readCells(t, grid.Path, "A3"))
}

func TestService_ImportConcurrent(t *testing.T) {
	grid := xlsxGrid(t)
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Import(context.Background(), "state:open", false)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, "1", readCells(t, grid.Path, "A2"))
	assert.Equal(t, "2", readCells(t, grid.Path, "A3"))
	assert.Equal(t, "", readCells(t, grid.Path, "A4"))
}

func TestService_Fields(t *testing.T) {
	grid := xlsxGrid(t)
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	report, err := svc.Fields(context.Background(), "state:open")
	require.NoError(t, err)
	assert.Equal(t, "state:open", report.Query)
	assert.Equal(t, 2, report.Tickets)
	assert.Equal(t, []string{"number", "title"}, report.Fields)

	_, err = os.Stat(grid.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestReport_WriteFile(t *testing.T) {
	grid := xlsxGrid(t)
	svc := tickets.NewService(lighthouseServer(t, http.StatusOK, twoTickets), grid, tickets.Backends{}, zap.NewNop())

	report, err := svc.Import(context.Background(), "open", true)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "query: open")
	assert.Contains(t, string(data), "appended: 2")
	assert.Contains(t, string(data), "dry_run: true")
}

// gatedFetcher blocks every Fetch until release is closed and records the context error
// seen when it resumes.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu     sync.Mutex
	ctxErr []error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedFetcher) Fetch(ctx context.Context, query string) ([]byte, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release

	g.mu.Lock()
	g.ctxErr = append(g.ctxErr, ctx.Err())
	g.mu.Unlock()
	return []byte(twoTickets), nil
}

func TestService_ImportSurvivesCallerCancel(t *testing.T) {
	grid := xlsxGrid(t)
	fetcher := newGatedFetcher()
	svc := tickets.NewService(fetcher, grid, tickets.Backends{}, zap.NewNop())
	svc.SetTimeout(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Import(ctx, "state:open", false)
		leaderErr <- err
	}()
	<-fetcher.started

	cancel()
	err := <-leaderErr
	assert.True(t, errors.Is(err, context.Canceled))

	joinerErr := make(chan error, 1)
	go func() {
		_, err := svc.Import(context.Background(), "state:open", false)
		joinerErr <- err
	}()

	close(fetcher.release)
	require.NoError(t, <-joinerErr)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	require.NotEmpty(t, fetcher.ctxErr)
	for _, e := range fetcher.ctxErr {
		assert.NoError(t, e)
	}
	assert.Equal(t, "1", readCells(t, grid.Path, "A2"))
	assert.Equal(t, "2", readCells(t, grid.Path, "A3"))
	assert.Equal(t, "", readCells(t, grid.Path, "A4"))
}
