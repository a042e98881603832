package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/grintel/grconsole/internal/database/repository"
	"github.com/grintel/grconsole/internal/tableview"
)

// Screen is one tab of the console: a column schema over a loaded collection.
type Screen struct {
	ID    string
	Title string
	// Entity is recorded in audit entries.
	Entity  string
	Columns []tableview.Column
	// Search lists the dotted keys matched by free-text search terms.
	Search       []string
	EmptyMessage string
	// LabelKey names the field describing a row in dialogs and audit details.
	LabelKey string
	// Dependents are the screens whose rows change when a row of this
	// screen is deleted (cascades, nulled references, counters).
	Dependents []string
	// Statuses is the cycle walked by AdvanceStatus.
	Statuses []string

	load      func(ctx context.Context) ([]tableview.Row, error)
	delete    func(ctx context.Context, id string) error
	setStatus func(ctx context.Context, id, status string) error
}

// CanDelete reports whether rows of s can be deleted.
func (s Screen) CanDelete() bool { return s.delete != nil }

// CanAdvance reports whether rows of s have a status that can be moved on.
func (s Screen) CanAdvance() bool { return s.setStatus != nil && len(s.Statuses) > 0 }

// NextStatus returns the status after current in the cycle. An unknown
// status restarts at the first one.
func (s Screen) NextStatus(current string) string {
	for i, st := range s.Statuses {
		if st == current {
			return s.Statuses[(i+1)%len(s.Statuses)]
		}
	}
	return s.Statuses[0]
}

var (
	companyStatus = tableview.Badge(map[string]tableview.Tone{
		"active":    tableview.ToneSuccess,
		"trial":     tableview.ToneAccent,
		"suspended": tableview.ToneDanger,
	})
	userStatus = tableview.Badge(map[string]tableview.Tone{
		"active":  tableview.ToneSuccess,
		"invited": tableview.ToneWarning,
		"blocked": tableview.ToneDanger,
	})
	ticketStatus = tableview.Badge(map[string]tableview.Tone{
		"open":        tableview.ToneAccent,
		"in_progress": tableview.ToneWarning,
		"resolved":    tableview.ToneSuccess,
		"closed":      tableview.ToneMuted,
	})
	ticketPriority = tableview.Badge(map[string]tableview.Tone{
		"low":      tableview.ToneMuted,
		"high":     tableview.ToneWarning,
		"critical": tableview.ToneDanger,
	})
	auditAction = tableview.Badge(map[string]tableview.Tone{
		"delete": tableview.ToneDanger,
		"view":   tableview.ToneMuted,
		"create": tableview.ToneSuccess,
		"status": tableview.ToneAccent,
	})
)

// Screens returns the console screens in tab order.
func Screens(w *Workspace) []Screen {
	day := dateRenderer(w.Config.UI.DateFormat)
	r := w.Repos
	return []Screen{
		{
			ID: "companies", Title: "Компании", Entity: "company", LabelKey: "name",
			Columns: []tableview.Column{
				{Key: "name", Title: "Название", Sortable: true},
				{Key: "inn", Title: "ИНН"},
				{Key: "industry", Title: "Отрасль", Sortable: true},
				{Key: "region", Title: "Регион", Sortable: true},
				{Key: "status", Title: "Статус", Sortable: true, Render: companyStatus},
				{Key: "sources", Title: "Источники", Sortable: true},
				{Key: "users", Title: "Польз.", Sortable: true},
				{Key: "createdAt", Title: "Создана", Sortable: true, Render: day},
			},
			Search:       []string{"name", "inn", "industry", "region"},
			EmptyMessage: "Компаний пока нет",
			Dependents:   []string{"users", "tickets", "stakeholders"},
			load:         listRows(r.Companies.List),
			delete:       r.Companies.Delete,
		},
		{
			ID: "users", Title: "Пользователи", Entity: "user", LabelKey: "email",
			Columns: []tableview.Column{
				{Key: "fullName", Title: "ФИО", Sortable: true},
				{Key: "email", Title: "Email", Sortable: true},
				{Key: "company.name", Title: "Компания", Sortable: true},
				{Key: "role", Title: "Роль", Sortable: true},
				{Key: "status", Title: "Статус", Sortable: true, Render: userStatus},
				{Key: "lastLogin", Title: "Последний вход", Sortable: true, Render: day},
			},
			Search:     []string{"fullName", "email", "company.name"},
			Dependents: []string{"companies", "tickets"},
			load:       listRows(r.Users.List),
			delete:     r.Users.Delete,
		},
		{
			ID: "tickets", Title: "Обращения", Entity: "ticket", LabelKey: "subject",
			Columns: []tableview.Column{
				{Key: "number", Title: "№", Sortable: true, Render: tableview.RenderFunc(ticketNumber)},
				{Key: "subject", Title: "Тема", Sortable: true},
				{Key: "company.name", Title: "Компания", Sortable: true},
				{Key: "assignee.name", Title: "Исполнитель", Sortable: true},
				{Key: "priority", Title: "Приоритет", Sortable: true, Render: ticketPriority},
				{Key: "status", Title: "Статус", Sortable: true, Render: ticketStatus},
				{Key: "updatedAt", Title: "Обновлено", Sortable: true, Render: day},
			},
			Search:    []string{"subject", "company.name", "assignee.name"},
			Statuses:  []string{"open", "in_progress", "resolved", "closed"},
			load:      listRows(r.Tickets.List),
			delete:    r.Tickets.Delete,
			setStatus: r.Tickets.UpdateStatus,
		},
		{
			ID: "stakeholders", Title: "Стейкхолдеры", Entity: "stakeholder", LabelKey: "fullName",
			Columns: []tableview.Column{
				{Key: "fullName", Title: "ФИО", Sortable: true},
				{Key: "position", Title: "Должность", Sortable: true},
				{Key: "company.name", Title: "Компания", Sortable: true},
				{Key: "category", Title: "Категория", Sortable: true},
				{Key: "influence", Title: "Влияние", Sortable: true, Render: tableview.RenderFunc(influence)},
				{Key: "sentiment", Title: "Тональность", Sortable: true, Render: tableview.RenderFunc(sentiment)},
			},
			Search: []string{"fullName", "position", "company.name", "category"},
			load:   listRows(r.Stakeholders.List),
			delete: r.Stakeholders.Delete,
		},
		{
			ID: "audit", Title: "Журнал", Entity: "audit", LabelKey: "action",
			Columns: []tableview.Column{
				{Key: "at", Title: "Время", Sortable: true},
				{Key: "actor", Title: "Кто", Sortable: true},
				{Key: "action", Title: "Действие", Sortable: true, Render: auditAction},
				{Key: "entity", Title: "Объект", Sortable: true},
				{Key: "details", Title: "Детали"},
			},
			Search:       []string{"actor", "action", "entity", "details"},
			EmptyMessage: "Журнал пуст",
			load:         listRows(r.Audit.List),
		},
	}
}

func listRows[T interface{ Row() tableview.Row }](list func(context.Context) ([]T, error)) func(context.Context) ([]tableview.Row, error) {
	return func(ctx context.Context) ([]tableview.Row, error) {
		items, err := list(ctx)
		if err != nil {
			return nil, err
		}
		return repository.Rows(items), nil
	}
}

// dateRenderer reformats row dates with layout. Values that do not parse
// are shown unchanged.
func dateRenderer(layout string) tableview.Renderer {
	return tableview.RenderFunc(func(value any, _ tableview.Row) tableview.Fragment {
		s, ok := value.(string)
		if !ok || s == "" {
			return tableview.Fragment{Text: tableview.Placeholder, Tone: tableview.ToneMuted}
		}
		if layout == "" || layout == repository.DateLayout {
			return tableview.Text(s)
		}
		t, err := time.Parse(repository.DateLayout, s)
		if err != nil {
			return tableview.Text(s)
		}
		return tableview.Text(t.Format(layout))
	})
}

func ticketNumber(value any, _ tableview.Row) tableview.Fragment {
	if value == nil {
		return tableview.Fragment{Text: tableview.Placeholder, Tone: tableview.ToneMuted}
	}
	return tableview.Fragment{Text: fmt.Sprintf("#%v", value), Tone: tableview.ToneAccent}
}

func influence(value any, _ tableview.Row) tableview.Fragment {
	n, ok := value.(int)
	if !ok {
		return tableview.Fragment{Text: tableview.Placeholder, Tone: tableview.ToneMuted}
	}
	tone := tableview.ToneDefault
	if n >= 8 {
		tone = tableview.ToneWarning
	}
	return tableview.Fragment{Text: fmt.Sprintf("%d/10", n), Tone: tone}
}

func sentiment(value any, _ tableview.Row) tableview.Fragment {
	v, ok := value.(float64)
	if !ok {
		return tableview.Fragment{Text: tableview.Placeholder, Tone: tableview.ToneMuted}
	}
	tone := tableview.ToneDefault
	switch {
	case v > 0:
		tone = tableview.ToneSuccess
	case v < 0:
		tone = tableview.ToneDanger
	}
	return tableview.Fragment{Text: fmt.Sprintf("%+.2f", v), Tone: tone}
}
