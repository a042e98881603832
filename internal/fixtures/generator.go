// Package fixtures fills the demo store with sample companies, users,
// tickets, stakeholders and audit entries.
package fixtures

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/database/repository"
)

// Counts reports how many records Seed wrote per table.
type Counts struct {
	Companies    int
	Users        int
	Tickets      int
	Stakeholders int
	Audit        int
}

// Epoch anchors every generated timestamp so that seeding is reproducible.
var Epoch = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

var companies = []struct {
	Name, Industry, Region, Status string
}{
	{"Северсталь", "Металлургия", "Вологодская обл.", "active"},
	{"Аэрофлот", "Авиаперевозки", "Москва", "active"},
	{"Яндекс", "ИТ", "Москва", "active"},
	{"Лукойл", "Нефть и газ", "Москва", "trial"},
	{"Норникель", "Металлургия", "Красноярский край", "active"},
	{"Ростелеком", "Телеком", "Санкт-Петербург", "suspended"},
	{"Вымпелком", "Телеком", "Москва", "active"},
	{"Юнипро", "Энергетика", "Сургут", "trial"},
	{"Фосагро", "Химия", "Череповец", "active"},
	{"Acme Analytics", "Consulting", "Limassol", "active"},
	{"Northwind Trading", "Logistics", "Riga", "suspended"},
	{"Ёлкин и партнёры", "Юридические услуги", "Екатеринбург", "trial"},
}

var (
	firstNames = []string{"Алексей", "Мария", "Иван", "Ольга", "Дмитрий", "Елена", "Сергей", "Анна", "Павел", "Юлия", "John", "Emma"}
	lastNames  = []string{"Иванов", "Смирнова", "Кузнецов", "Попова", "Соколов", "Лебедева", "Козлов", "Новикова", "Морозов", "Волкова", "Smith", "Taylor"}
	roles      = []string{"admin", "analyst", "viewer", "manager"}
	subjects   = []string{
		"Не приходят уведомления",
		"Ошибка экспорта отчёта",
		"Дубли упоминаний в ленте",
		"Нужен доступ для нового сотрудника",
		"Неверная тональность публикации",
		"Source feed is delayed",
		"Dashboard widget shows stale data",
		"Изменить список источников",
	}
	priorities   = []string{"low", "normal", "high", "critical"}
	statuses     = []string{"open", "in_progress", "resolved", "closed"}
	positions    = []string{"Генеральный директор", "Пресс-секретарь", "Финансовый директор", "Депутат", "Журналист", "Head of PR"}
	categories   = []string{"Руководство", "СМИ", "Органы власти", "Партнёры"}
	auditActions = []string{"login", "export", "update", "create"}
)

// ID derives a stable id for a fixture record.
func ID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+key)).String()
}

// Seed creates sample data. Ids are stable, so seeding twice updates rows in
// place instead of duplicating them. rng drives every random choice.
func Seed(ctx context.Context, repos repository.Repos, rng *rand.Rand) (Counts, error) {
	var n Counts

	companyIDs := make([]string, 0, len(companies))
	for i, c := range companies {
		id := ID("company", c.Name)
		err := repos.Companies.Upsert(ctx, repository.Company{
			ID:               id,
			Name:             c.Name,
			INN:              fmt.Sprintf("77%08d", 1000000+i*7919),
			Industry:         c.Industry,
			Region:           c.Region,
			Status:           c.Status,
			MonitoredSources: 5 + rng.Intn(400),
			CreatedAt:        Epoch.AddDate(0, 0, -rng.Intn(700)),
		})
		if err != nil {
			return n, fmt.Errorf("seed company %q: %w", c.Name, err)
		}
		companyIDs = append(companyIDs, id)
		n.Companies++
	}

	userIDs := make([]string, 0, 40)
	userNames := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		name := first + " " + last
		email := fmt.Sprintf("%s.%d@%s", translitKey(last), i, "example.gr")
		u := repository.User{
			ID:        ID("user", email),
			FullName:  name,
			Email:     email,
			Role:      roles[rng.Intn(len(roles))],
			Status:    "active",
			CreatedAt: Epoch.AddDate(0, 0, -rng.Intn(500)),
		}
		if rng.Intn(8) > 0 {
			cid := companyIDs[rng.Intn(len(companyIDs))]
			u.CompanyID = &cid
		}
		if rng.Intn(5) > 0 {
			at := Epoch.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
			u.LastLoginAt = &at
		} else {
			u.Status = "invited"
		}
		if err := repos.Users.Upsert(ctx, u); err != nil {
			return n, fmt.Errorf("seed user %q: %w", email, err)
		}
		userIDs = append(userIDs, u.ID)
		userNames = append(userNames, name)
		n.Users++
	}

	for i := 0; i < 60; i++ {
		number := 1000 + i
		created := Epoch.Add(-time.Duration(rng.Intn(120*24)) * time.Hour)
		t := repository.Ticket{
			ID:        ID("ticket", fmt.Sprint(number)),
			Number:    number,
			Subject:   subjects[rng.Intn(len(subjects))],
			CompanyID: companyIDs[rng.Intn(len(companyIDs))],
			Priority:  priorities[rng.Intn(len(priorities))],
			Status:    statuses[rng.Intn(len(statuses))],
			CreatedAt: created,
			UpdatedAt: created.Add(time.Duration(rng.Intn(72)) * time.Hour),
		}
		if rng.Intn(4) > 0 {
			aid := userIDs[rng.Intn(len(userIDs))]
			t.AssigneeID = &aid
		}
		if err := repos.Tickets.Upsert(ctx, t); err != nil {
			return n, fmt.Errorf("seed ticket %d: %w", number, err)
		}
		n.Tickets++
	}

	for i := 0; i < 30; i++ {
		name := lastNames[rng.Intn(len(lastNames))] + " " + firstNames[rng.Intn(len(firstNames))]
		s := repository.Stakeholder{
			ID:        ID("stakeholder", fmt.Sprint(i)),
			CompanyID: companyIDs[rng.Intn(len(companyIDs))],
			FullName:  name,
			Position:  positions[rng.Intn(len(positions))],
			Category:  categories[rng.Intn(len(categories))],
			Influence: 1 + rng.Intn(10),
		}
		if rng.Intn(3) > 0 {
			v := float64(rng.Intn(201)-100) / 100
			s.Sentiment = &v
		}
		if err := repos.Stakeholders.Upsert(ctx, s); err != nil {
			return n, fmt.Errorf("seed stakeholder %d: %w", i, err)
		}
		n.Stakeholders++
	}

	for i := 0; i < 15; i++ {
		u := rng.Intn(len(userIDs))
		e := repository.AuditEntry{
			ID:       ID("audit", fmt.Sprint(i)),
			At:       Epoch.Add(-time.Duration(i*37) * time.Minute),
			Actor:    userNames[u],
			Action:   auditActions[rng.Intn(len(auditActions))],
			Entity:   "user",
			EntityID: userIDs[u],
			Details:  "demo fixture",
		}
		if _, err := repos.Audit.Insert(ctx, e); err != nil {
			return n, fmt.Errorf("seed audit %d: %w", i, err)
		}
		n.Audit++
	}
	return n, nil
}

// Reset removes every record from the demo store.
func Reset(db *sql.DB) error {
	return database.WithTx(db, func(tx *sql.Tx) error {
		for _, table := range []string{"audit_log", "stakeholders", "tickets", "users", "companies"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Empty reports whether the store has no companies yet.
func Empty(ctx context.Context, repos repository.Repos) (bool, error) {
	list, err := repos.Companies.List(ctx)
	if err != nil {
		return false, err
	}
	return len(list) == 0, nil
}

var translit = strings.NewReplacer(
	"а", "a", "б", "b", "в", "v", "г", "g", "д", "d", "е", "e", "ё", "e", "ж", "zh",
	"з", "z", "и", "i", "й", "y", "к", "k", "л", "l", "м", "m", "н", "n", "о", "o",
	"п", "p", "р", "r", "с", "s", "т", "t", "у", "u", "ф", "f", "х", "kh", "ц", "ts",
	"ч", "ch", "ш", "sh", "щ", "sch", "ъ", "", "ы", "y", "ь", "", "э", "e", "ю", "yu", "я", "ya",
)

func translitKey(s string) string {
	return translit.Replace(strings.ToLower(s))
}
