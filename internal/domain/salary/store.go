package salary

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const salarySelect = `
    SELECT s.id, s.labourer_id, COALESCE(l.name, ''), s.start_period, s.end_period, s.total_days_present,
           s.daily_wage, s.total_salary, s.status, s.payslip_url, s.payment_date, s.created_at, s.updated_at
    FROM salaries s
    LEFT JOIN labourers l ON l.id = s.labourer_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanSalary(row scanner) (Salary, error) {
	var s Salary
	err := row.Scan(&s.ID, &s.LabourerID, &s.LabourerName, &s.StartPeriod, &s.EndPeriod, &s.TotalDaysPresent,
		&s.DailyWage, &s.TotalSalary, &s.Status, &s.PayslipURL, &s.PaymentDate, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *Store) PresentDays(ctx context.Context, start, end time.Time) ([]PresentDays, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT labourer_id, COUNT(1)
    FROM attendance
    WHERE status = 'present' AND date >= $1 AND date <= $2
    GROUP BY labourer_id
    ORDER BY labourer_id
  `, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PresentDays
	for rows.Next() {
		var p PresentDays
		if err := rows.Scan(&p.LabourerID, &p.Days); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Exists(ctx context.Context, key Key, excludeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM salaries
      WHERE labourer_id = $1 AND start_period = $2 AND end_period = $3 AND id <> $4
    )
  `, key.LabourerID, key.StartPeriod, key.EndPeriod, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) Create(ctx context.Context, sal Salary) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO salaries (id, labourer_id, start_period, end_period, total_days_present, daily_wage, total_salary, status, payslip_url, payment_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, sal.ID, sal.LabourerID, sal.StartPeriod, sal.EndPeriod, sal.TotalDaysPresent, sal.DailyWage, sal.TotalSalary, sal.Status, sal.PayslipURL, sal.PaymentDate)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Salary, error) {
	return scanSalary(s.DB.QueryRow(ctx, salarySelect+" WHERE s.id = $1", id))
}

func (s *Store) Update(ctx context.Context, sal Salary) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE salaries
    SET labourer_id = $1, start_period = $2, end_period = $3, total_days_present = $4,
        daily_wage = $5, total_salary = $6, updated_at = now()
    WHERE id = $7
  `, sal.LabourerID, sal.StartPeriod, sal.EndPeriod, sal.TotalDaysPresent, sal.DailyWage, sal.TotalSalary, sal.ID))
}

func (s *Store) MarkPaid(ctx context.Context, id string, paidOn time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salaries
    SET status = 'paid', payment_date = $1, updated_at = now()
    WHERE id = $2 AND status = 'pending'
  `, paidOn, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetPayslipURL(ctx context.Context, id, url string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "UPDATE salaries SET payslip_url = $1, updated_at = now() WHERE id = $2", url, id))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM salaries WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Salary, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salaries s "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY s.end_period DESC, s.created_at DESC %s", salarySelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Salary
	for rows.Next() {
		sal, err := scanSalary(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sal)
	}
	return out, total, rows.Err()
}

func (s *Store) Totals(ctx context.Context, pred query.Predicate) (map[string]StatusTotal, error) {
	rows, err := s.DB.Query(ctx, "SELECT s.status, COUNT(1), COALESCE(SUM(s.total_salary), 0) FROM salaries s "+pred.Where()+" GROUP BY s.status", pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]StatusTotal{}
	for rows.Next() {
		var status string
		var count int
		var amount decimal.Decimal
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, err
		}
		out[status] = StatusTotal{Count: count, Amount: amount}
	}
	return out, rows.Err()
}
