package repository

import (
	"time"

	"github.com/grintel/grconsole/internal/tableview"
)

// DateLayout is the layout of dates inside table rows. ISO dates sort
// chronologically as text.
const DateLayout = "2006-01-02"

// Company represents a monitored client company.
type Company struct {
	ID               string
	Name             string
	INN              string
	Industry         string
	Region           string
	Status           string
	MonitoredSources int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// UserCount is filled by List.
	UserCount int
}

// User represents a console user.
type User struct {
	ID          string
	CompanyID   *string
	CompanyName *string
	FullName    string
	Email       string
	Role        string
	Status      string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// Ticket represents a support ticket.
type Ticket struct {
	ID           string
	Number       int
	Subject      string
	CompanyID    string
	CompanyName  string
	AssigneeID   *string
	AssigneeName *string
	Priority     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stakeholder represents a person of interest tracked for a company.
type Stakeholder struct {
	ID          string
	CompanyID   string
	CompanyName string
	FullName    string
	Position    string
	Category    string
	Influence   int
	Sentiment   *float64
}

// AuditEntry represents one audit log record.
type AuditEntry struct {
	ID       string
	At       time.Time
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Details  string
}

// Row projects c for table views.
func (c Company) Row() tableview.Row {
	return tableview.Row{
		"id":        c.ID,
		"name":      c.Name,
		"inn":       c.INN,
		"industry":  c.Industry,
		"region":    c.Region,
		"status":    c.Status,
		"sources":   c.MonitoredSources,
		"users":     c.UserCount,
		"createdAt": c.CreatedAt.Format(DateLayout),
	}
}

// Row projects u for table views. A user without a company has a nil
// "company" entry.
func (u User) Row() tableview.Row {
	return tableview.Row{
		"id":        u.ID,
		"fullName":  u.FullName,
		"email":     u.Email,
		"role":      u.Role,
		"status":    u.Status,
		"company":   ref(u.CompanyID, u.CompanyName),
		"lastLogin": date(u.LastLoginAt),
		"createdAt": u.CreatedAt.Format(DateLayout),
	}
}

// Row projects t for table views.
func (t Ticket) Row() tableview.Row {
	return tableview.Row{
		"id":        t.ID,
		"number":    t.Number,
		"subject":   t.Subject,
		"company":   tableview.Row{"id": t.CompanyID, "name": t.CompanyName},
		"assignee":  ref(t.AssigneeID, t.AssigneeName),
		"priority":  t.Priority,
		"status":    t.Status,
		"createdAt": t.CreatedAt.Format(DateLayout),
		"updatedAt": t.UpdatedAt.Format(DateLayout),
	}
}

// Row projects s for table views.
func (s Stakeholder) Row() tableview.Row {
	var sentiment any
	if s.Sentiment != nil {
		sentiment = *s.Sentiment
	}
	return tableview.Row{
		"id":        s.ID,
		"fullName":  s.FullName,
		"position":  s.Position,
		"category":  s.Category,
		"influence": s.Influence,
		"sentiment": sentiment,
		"company":   tableview.Row{"id": s.CompanyID, "name": s.CompanyName},
	}
}

// Row projects e for table views.
func (e AuditEntry) Row() tableview.Row {
	return tableview.Row{
		"id":       e.ID,
		"at":       e.At.UTC().Format("2006-01-02 15:04:05"),
		"actor":    e.Actor,
		"action":   e.Action,
		"entity":   e.Entity,
		"entityId": e.EntityID,
		"details":  e.Details,
	}
}

func ref(id, name *string) any {
	if id == nil {
		return nil
	}
	r := tableview.Row{"id": *id, "name": nil}
	if name != nil {
		r["name"] = *name
	}
	return r
}

func date(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

// Rows projects a slice of models.
func Rows[T interface{ Row() tableview.Row }](items []T) []tableview.Row {
	out := make([]tableview.Row, len(items))
	for i, it := range items {
		out[i] = it.Row()
	}
	return out
}
