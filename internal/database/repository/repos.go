package repository

import "database/sql"

// Repos bundles every repository over one database.
type Repos struct {
	Companies    *CompanyRepo
	Users        *UserRepo
	Tickets      *TicketRepo
	Stakeholders *StakeholderRepo
	Audit        *AuditRepo
}

// New builds every repo over db.
func New(db *sql.DB) Repos {
	return Repos{
		Companies:    NewCompanyRepo(db),
		Users:        NewUserRepo(db),
		Tickets:      NewTicketRepo(db),
		Stakeholders: NewStakeholderRepo(db),
		Audit:        NewAuditRepo(db),
	}
}
