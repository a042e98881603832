package admin

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grintel/grconsole/internal/config"
	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/database/repository"
	"github.com/grintel/grconsole/internal/fixtures"
	"github.com/grintel/grconsole/internal/tableview"
)

func testConfig() config.Config {
	return config.Config{
		Table: config.TableConfig{PageSize: 10, EmptyMessage: "Нет данных", Locale: "ru"},
		UI:    config.UIConfig{DateFormat: "02.01.2006", Operator: "ops@gr.local"},
		Log:   config.LogConfig{Level: "info"},
	}
}

func newTestWorkspace(t *testing.T, seed bool) *Workspace {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "admin.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repository.New(db)
	if seed {
		_, err := fixtures.Seed(context.Background(), repos, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
	}
	cfg := testConfig()
	cfg.Database.Path = dbPath
	return NewWorkspace(repos, cfg, zap.NewNop())
}

func TestScreensOrder(t *testing.T) {
	t.Parallel()
	ws := NewWorkspace(repository.Repos{}, testConfig(), nil)
	var ids []string
	for _, s := range Screens(ws) {
		ids = append(ids, s.ID)
		require.NotEmpty(t, s.Columns, s.ID)
		require.NotEmpty(t, s.Title, s.ID)
	}
	require.Equal(t, []string{"companies", "users", "tickets", "stakeholders", "audit"}, ids)
}

func TestScreenLookup(t *testing.T) {
	t.Parallel()
	ws := NewWorkspace(repository.Repos{}, testConfig(), nil)

	s, err := ws.Screen("tickets")
	require.NoError(t, err)
	require.Equal(t, "ticket", s.Entity)
	require.True(t, s.CanDelete())

	audit, err := ws.Screen("audit")
	require.NoError(t, err)
	require.False(t, audit.CanDelete())

	_, err = ws.Screen("invoices")
	require.ErrorIs(t, err, ErrUnknownScreen)
}

func TestLoadAndView(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws := newTestWorkspace(t, true)

	s, err := ws.Screen("users")
	require.NoError(t, err)
	rows, err := ws.Load(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 40)

	v, err := ws.NewView(s, rows, nil)
	require.NoError(t, err)
	require.Equal(t, 10, v.PageSize())
	require.Equal(t, 4, v.TotalPages())
	require.Equal(t, "Нет данных", v.EmptyMessage())

	companies, err := ws.Screen("companies")
	require.NoError(t, err)
	cv, err := ws.NewView(companies, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Компаний пока нет", cv.EmptyMessage())
}

func TestDeleteWritesAudit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws := newTestWorkspace(t, false)
	require.NoError(t, ws.Repos.Companies.Upsert(ctx, repository.Company{ID: "c1", Name: "Северсталь", Status: "active"}))

	s, err := ws.Screen("companies")
	require.NoError(t, err)
	rows, err := ws.Load(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, ws.Delete(ctx, s, rows[0]))

	_, err = ws.Repos.Companies.Get(ctx, "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := ws.Repos.Audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "delete", entries[0].Action)
	require.Equal(t, "company", entries[0].Entity)
	require.Equal(t, "c1", entries[0].EntityID)
	require.Equal(t, "ops@gr.local", entries[0].Actor)
	require.Equal(t, "Северсталь", entries[0].Details)

	err = ws.Delete(ctx, s, rows[0])
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteReadOnlyScreen(t *testing.T) {
	t.Parallel()
	ws := newTestWorkspace(t, false)
	s, err := ws.Screen("audit")
	require.NoError(t, err)
	err = ws.Delete(context.Background(), s, tableview.Row{"id": "a1"})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestAdvanceStatusCyclesAndAudits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws := newTestWorkspace(t, false)
	require.NoError(t, ws.Repos.Companies.Upsert(ctx, repository.Company{ID: "c1", Name: "Северсталь", Status: "active"}))
	require.NoError(t, ws.Repos.Tickets.Upsert(ctx, repository.Ticket{ID: "t1", Number: 1, Subject: "Нет выгрузки", CompanyID: "c1", Priority: "high", Status: "resolved"}))

	s, err := ws.Screen("tickets")
	require.NoError(t, err)
	require.True(t, s.CanAdvance())

	rows, err := ws.Load(ctx, s)
	require.NoError(t, err)
	to, err := ws.AdvanceStatus(ctx, s, rows[0])
	require.NoError(t, err)
	require.Equal(t, "closed", to)

	got, err := ws.Repos.Tickets.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "closed", got.Status)

	rows, err = ws.Load(ctx, s)
	require.NoError(t, err)
	to, err = ws.AdvanceStatus(ctx, s, rows[0])
	require.NoError(t, err)
	require.Equal(t, "open", to, "the cycle wraps around")

	entries, err := ws.Repos.Audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, "status", e.Action)
		require.Equal(t, "t1", e.EntityID)
	}

	_, err = ws.AdvanceStatus(ctx, s, tableview.Row{"id": "missing", "status": "open"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdvanceStatusWithoutStatuses(t *testing.T) {
	t.Parallel()
	ws := newTestWorkspace(t, false)
	s, err := ws.Screen("companies")
	require.NoError(t, err)
	require.False(t, s.CanAdvance())
	_, err = ws.AdvanceStatus(context.Background(), s, tableview.Row{"id": "c1"})
	require.ErrorIs(t, err, ErrNoStatus)
}

func TestNextStatusUnknownRestarts(t *testing.T) {
	t.Parallel()
	s := Screen{Statuses: []string{"open", "closed"}}
	require.Equal(t, "closed", s.NextStatus("open"))
	require.Equal(t, "open", s.NextStatus("closed"))
	require.Equal(t, "open", s.NextStatus("weird"))
}

func TestCompanyDependents(t *testing.T) {
	t.Parallel()
	ws := NewWorkspace(repository.Repos{}, testConfig(), nil)
	s, err := ws.Screen("companies")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"users", "tickets", "stakeholders"}, s.Dependents)
}

func TestOpenWritesViewAudit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ws := newTestWorkspace(t, false)
	s, err := ws.Screen("tickets")
	require.NoError(t, err)

	require.NoError(t, ws.Open(ctx, s, tableview.Row{"id": "t1", "subject": "Ошибка экспорта"}))

	entries, err := ws.Repos.Audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "view", entries[0].Action)
	require.Equal(t, "Ошибка экспорта", entries[0].Details)
}

func TestLabelFallsBackToID(t *testing.T) {
	t.Parallel()
	s := Screen{LabelKey: "company.name"}
	require.Equal(t, "Acme", Label(s, tableview.Row{"id": "x", "company": tableview.Row{"name": "Acme"}}))
	require.Equal(t, "x", Label(s, tableview.Row{"id": "x", "company": nil}))
}

func TestRenderers(t *testing.T) {
	t.Parallel()

	require.Equal(t, tableview.Fragment{Text: "+0.35", Tone: tableview.ToneSuccess}, sentiment(0.35, nil))
	require.Equal(t, tableview.Fragment{Text: "-1.00", Tone: tableview.ToneDanger}, sentiment(-1.0, nil))
	require.Equal(t, tableview.ToneMuted, sentiment(nil, nil).Tone)

	require.Equal(t, "9/10", influence(9, nil).Text)
	require.Equal(t, tableview.ToneWarning, influence(9, nil).Tone)
	require.Equal(t, "#1042", ticketNumber(1042, nil).Text)

	day := dateRenderer("02.01.2006")
	require.Equal(t, "05.03.2026", day.Render("2026-03-05", nil).Text)
	require.Equal(t, "soon", day.Render("soon", nil).Text)
	require.Equal(t, tableview.Placeholder, day.Render(nil, nil).Text)

	require.Equal(t, tableview.ToneDanger, companyStatus.Render("suspended", nil).Tone)
	require.Equal(t, tableview.ToneDefault, companyStatus.Render("archived", nil).Tone)
}
