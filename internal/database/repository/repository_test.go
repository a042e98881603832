package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/tableview"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestCompanyUpsertListGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewCompanyRepo(db)

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, Company{ID: "c1", Name: "Яндекс", Status: "active", MonitoredSources: 12, CreatedAt: created}))
	require.NoError(t, repo.Upsert(ctx, Company{ID: "c2", Name: "Acme", Status: "trial"}))
	require.NoError(t, repo.Upsert(ctx, Company{ID: "c1", Name: "Яндекс", Status: "suspended", MonitoredSources: 13}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c1", list[0].ID)
	require.Equal(t, "suspended", list[0].Status)
	require.Equal(t, 13, list[0].MonitoredSources)
	require.True(t, created.Equal(list[0].CreatedAt), "created_at survives the upsert")

	got, err := repo.Get(ctx, "c2")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)

	require.NoError(t, repo.Delete(ctx, "c2"))
	_, err = repo.Get(ctx, "c2")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "c2"), ErrNotFound)
}

func TestUsersJoinCompanyAndNullRelation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	companies := NewCompanyRepo(db)
	users := NewUserRepo(db)

	require.NoError(t, companies.Upsert(ctx, Company{ID: "c1", Name: "Аэрофлот", Status: "active"}))
	login := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, users.Upsert(ctx, User{ID: "u1", CompanyID: strPtr("c1"), FullName: "Иван Петров", Email: "ivan@example.gr", Role: "admin", Status: "active", LastLoginAt: &login}))
	require.NoError(t, users.Upsert(ctx, User{ID: "u2", FullName: "Emma Taylor", Email: "emma@example.gr", Role: "viewer", Status: "invited"}))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	row := list[0].Row()
	name, ok := tableview.Resolve("company.name", row)
	require.True(t, ok)
	require.Equal(t, "Аэрофлот", name)
	require.Equal(t, "2026-01-02", row["lastLogin"])

	orphan := list[1].Row()
	require.Nil(t, orphan["company"])
	require.Nil(t, orphan["lastLogin"])
	_, ok = tableview.Resolve("company.name", orphan)
	require.False(t, ok)

	c, err := companies.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, c.UserCount)

	require.NoError(t, companies.Delete(ctx, "c1"))
	u, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, u.CompanyID, "deleting a company detaches its users")
}

func TestTicketsCascadeAndStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	companies := NewCompanyRepo(db)
	users := NewUserRepo(db)
	tickets := NewTicketRepo(db)

	require.NoError(t, companies.Upsert(ctx, Company{ID: "c1", Name: "Лукойл", Status: "active"}))
	require.NoError(t, users.Upsert(ctx, User{ID: "u1", FullName: "Ольга Попова", Email: "olga@example.gr", Role: "analyst", Status: "active"}))
	require.NoError(t, tickets.Upsert(ctx, Ticket{ID: "t1", Number: 1001, Subject: "Ошибка экспорта", CompanyID: "c1", AssigneeID: strPtr("u1"), Priority: "high", Status: "open"}))
	require.NoError(t, tickets.Upsert(ctx, Ticket{ID: "t2", Number: 1002, Subject: "Нет уведомлений", CompanyID: "c1", Priority: "low", Status: "open"}))

	require.NoError(t, tickets.UpdateStatus(ctx, "t1", "resolved"))
	require.ErrorIs(t, tickets.UpdateStatus(ctx, "missing", "closed"), ErrNotFound)

	t1, err := tickets.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "resolved", t1.Status)
	require.Equal(t, "Ольга Попова", *t1.AssigneeName)
	require.Equal(t, "Лукойл", t1.CompanyName)

	t2, err := tickets.Get(ctx, "t2")
	require.NoError(t, err)
	require.Nil(t, t2.Row()["assignee"])

	require.NoError(t, companies.Delete(ctx, "c1"))
	list, err := tickets.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestStakeholdersNullableSentiment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, NewCompanyRepo(db).Upsert(ctx, Company{ID: "c1", Name: "Норникель", Status: "active"}))
	repo := NewStakeholderRepo(db)

	v := -0.25
	require.NoError(t, repo.Upsert(ctx, Stakeholder{ID: "s1", CompanyID: "c1", FullName: "Соколов Павел", Influence: 8, Sentiment: &v}))
	require.NoError(t, repo.Upsert(ctx, Stakeholder{ID: "s2", CompanyID: "c1", FullName: "Волкова Анна", Influence: 3}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, -0.25, list[0].Row()["sentiment"])
	require.Nil(t, list[1].Row()["sentiment"])
	require.Equal(t, 8, list[0].Row()["influence"])

	rows := Rows(list)
	sorted := tableview.Sort(rows, tableview.SortState{Key: "sentiment", Direction: tableview.SortAscending})
	require.Equal(t, "s1", sorted[0]["id"])
	require.Equal(t, "s2", sorted[1]["id"])
}

func TestAuditInsertNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewAuditRepo(openTestDB(t))

	first, err := repo.Insert(ctx, AuditEntry{At: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), Actor: "admin", Action: "delete", Entity: "company", EntityID: "c1"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	_, err = repo.Insert(ctx, AuditEntry{At: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), Actor: "admin", Action: "view", Entity: "ticket", EntityID: "t1"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "view", list[0].Action)
	require.Equal(t, "2026-01-01 08:00:00", list[1].Row()["at"])
}

func TestAuditInsertStampsNow(t *testing.T) {
	t.Parallel()
	repo := NewAuditRepo(openTestDB(t))
	before := time.Now().UTC().Truncate(time.Second)
	e, err := repo.Insert(context.Background(), AuditEntry{Actor: "admin", Action: "view", Entity: "company"})
	require.NoError(t, err)
	require.Equal(t, time.UTC, e.At.Location())
	require.Zero(t, e.At.Nanosecond())
	require.False(t, e.At.Before(before))
}
