package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// PgStore is the Postgres-backed Store. Each unit of work is one pgx
// transaction; row locks are taken with FOR UPDATE NOWAIT.
type PgStore struct {
	db        DB
	validator Validator
}

func NewPgStore(db DB, validator Validator) *PgStore {
	return &PgStore{db: db, validator: validator}
}

func (s *PgStore) WithTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	pgTx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = pgTx.Rollback(ctx)
			return
		}
		if cErr := pgTx.Commit(ctx); cErr != nil {
			err = translatePgError(cErr)
		}
	}()

	tx := newPgUnit(pgTx)
	if err = fn(tx); err != nil {
		return err
	}
	if s.validator != nil {
		if err = s.validator.Validate(ctx, tx, tx.Changes()); err != nil {
			return err
		}
	}
	return nil
}

func (s *PgStore) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// pgUnit binds every repository to the same pgx.Tx and change log.
type pgUnit struct {
	log         *ChangeLog
	buildings   *buildingRepo
	departments *departmentRepo
	tenants     *tenantRepo
	contracts   *contractRepo
	payments    *paymentRepo
	incidents   *incidentRepo
	providers   *providerRepo
	auditLogs   *auditLogRepo
}

func newPgUnit(tx pgx.Tx) *pgUnit {
	log := &ChangeLog{}
	return &pgUnit{
		log:         log,
		buildings:   &buildingRepo{db: tx, log: log},
		departments: &departmentRepo{db: tx, log: log},
		tenants:     &tenantRepo{db: tx, log: log},
		contracts:   &contractRepo{db: tx, log: log},
		payments:    &paymentRepo{db: tx, log: log},
		incidents:   &incidentRepo{db: tx, log: log},
		providers:   &providerRepo{db: tx, log: log},
		auditLogs:   &auditLogRepo{db: tx},
	}
}

func (u *pgUnit) Buildings() BuildingRepository     { return u.buildings }
func (u *pgUnit) Departments() DepartmentRepository { return u.departments }
func (u *pgUnit) Tenants() TenantRepository         { return u.tenants }
func (u *pgUnit) Contracts() ContractRepository     { return u.contracts }
func (u *pgUnit) Payments() PaymentRepository       { return u.payments }
func (u *pgUnit) Incidents() IncidentRepository     { return u.incidents }
func (u *pgUnit) Providers() ProviderRepository     { return u.providers }
func (u *pgUnit) AuditLogs() AuditLogRepository     { return u.auditLogs }
func (u *pgUnit) Changes() []Change                 { return u.log.Changes() }
