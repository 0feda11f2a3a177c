package salary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/objectid"
)

type Service struct {
	Store      StoreAPI
	PayslipDir string
	now        func() time.Time
}

func NewService(store StoreAPI, payslipDir string) *Service {
	return &Service{Store: store, PayslipDir: payslipDir, now: time.Now}
}

var errDuplicate = apperr.Conflict(CodeDuplicate, "salary already exists for this labourer and period")

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		ID("s.labourer_id", "labourerId", f.LabourerID).
		Enum("s.status", "status", f.Status, Statuses).
		Overlap("s.start_period", "s.end_period", "startPeriod", f.StartPeriod, "endPeriod", f.EndPeriod).
		Build()
}

func (s Salary) key() Key {
	return Key{LabourerID: s.LabourerID, StartPeriod: s.StartPeriod, EndPeriod: s.EndPeriod}
}

// Generate derives one pending salary per labourer with present attendance
// in the period. Labourers that already have a salary for the exact period
// are skipped, and a failed insert does not stop the others.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	start, end, err := period(in.StartPeriod, in.EndPeriod)
	if err != nil {
		return GenerateResult{}, err
	}
	wage, err := requireWage(in.DailyWage)
	if err != nil {
		return GenerateResult{}, err
	}

	present, err := s.Store.PresentDays(ctx, start, end)
	if err != nil {
		return GenerateResult{}, err
	}
	result := GenerateResult{
		Generated: []Salary{},
		Skipped:   []string{},
		Failed:    []GenerateFailure{},
	}
	if len(present) == 0 {
		result.Outcome = OutcomeNoAttendance
		result.Message = "no present attendance found for the period; no salaries generated"
		return result, nil
	}

	now := s.now().UTC()
	for _, p := range present {
		if p.Days <= 0 {
			continue
		}
		sal := Salary{
			LabourerID:       p.LabourerID,
			StartPeriod:      start,
			EndPeriod:        end,
			TotalDaysPresent: p.Days,
			DailyWage:        wage,
			TotalSalary:      total(p.Days, wage),
			Status:           StatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		exists, err := s.Store.Exists(ctx, sal.key(), "")
		if err != nil {
			result.Failed = append(result.Failed, GenerateFailure{LabourerID: p.LabourerID, Error: "failed to check existing salary"})
			continue
		}
		if exists {
			result.Skipped = append(result.Skipped, p.LabourerID)
			continue
		}
		sal.ID = objectid.New()
		if err := s.Store.Create(ctx, sal); err != nil {
			if db.IsUniqueViolation(err) {
				result.Skipped = append(result.Skipped, p.LabourerID)
				continue
			}
			result.Failed = append(result.Failed, GenerateFailure{LabourerID: p.LabourerID, Error: describe(mapWriteError(err))})
			continue
		}
		result.Generated = append(result.Generated, sal)
	}

	result.GeneratedCount = len(result.Generated)
	result.SkippedCount = len(result.Skipped)
	result.FailedCount = len(result.Failed)
	switch {
	case result.GeneratedCount > 0:
		result.Outcome = OutcomeGenerated
		result.Message = fmt.Sprintf("generated %d salary records", result.GeneratedCount)
	case result.FailedCount == 0:
		result.Outcome = OutcomeAlreadyGenerated
		result.Message = "salaries already generated for every labourer in the period"
	default:
		result.Outcome = OutcomeFailed
		result.Message = "no salary records could be generated"
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Salary, error) {
	required := []struct {
		field   string
		missing bool
	}{
		{"labourerId", in.LabourerID == nil},
		{"startPeriod", in.StartPeriod == nil},
		{"endPeriod", in.EndPeriod == nil},
		{"totalDaysPresent", in.TotalDaysPresent == nil},
		{"dailyWage", in.DailyWage == nil},
	}
	for _, r := range required {
		if r.missing {
			return Salary{}, apperr.Validation(r.field, "is required")
		}
	}
	sal := Salary{Status: StatusPending}
	if err := apply(&sal, in); err != nil {
		return Salary{}, err
	}
	if err := s.ensureUnique(ctx, sal, ""); err != nil {
		return Salary{}, err
	}
	sal.ID = objectid.New()
	if err := s.Store.Create(ctx, sal); err != nil {
		return Salary{}, mapWriteError(err)
	}
	return s.Get(ctx, sal.ID)
}

func (s *Service) Get(ctx context.Context, id string) (Salary, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Salary{}, err
	}
	sal, err := s.Store.Get(ctx, id)
	if err != nil {
		return Salary{}, mapWriteError(err)
	}
	return sal, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Salary], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Salary]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Salary]{}, err
	}
	return query.NewResult(page, items, total), nil
}

// Update edits a pending salary and recomputes its total.
func (s *Service) Update(ctx context.Context, id string, in Input) (Salary, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	if current.Status != StatusPending {
		return Salary{}, apperr.Conflict(CodeInvalidState, "only pending salaries can be updated")
	}
	if err := apply(&current, in); err != nil {
		return Salary{}, err
	}
	if err := s.ensureUnique(ctx, current, current.ID); err != nil {
		return Salary{}, err
	}
	if err := s.Store.Update(ctx, current); err != nil {
		return Salary{}, mapWriteError(err)
	}
	return s.Get(ctx, current.ID)
}

// Pay moves a pending salary to paid. The payment date defaults to now.
func (s *Service) Pay(ctx context.Context, id string, in PayInput) (Salary, error) {
	paidOn := s.now().UTC()
	if strings.TrimSpace(in.PaymentDate) != "" {
		parsed, _, err := query.ParseDate(in.PaymentDate)
		if err != nil {
			return Salary{}, apperr.InvalidDate("paymentDate")
		}
		paidOn = parsed.UTC()
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	if current.Status != StatusPending {
		return Salary{}, apperr.Conflict(CodeInvalidState, "salary is already paid")
	}
	ok, err := s.Store.MarkPaid(ctx, current.ID, paidOn)
	if err != nil {
		return Salary{}, err
	}
	if !ok {
		return Salary{}, apperr.Conflict(CodeInvalidState, "salary is already paid")
	}
	return s.Get(ctx, current.ID)
}

func (s *Service) Delete(ctx context.Context, id string) (Salary, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	if err := s.Store.Delete(ctx, current.ID); err != nil {
		return Salary{}, mapWriteError(err)
	}
	return current, nil
}

// Summary totals salaries by status. Both statuses are always reported.
func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	filter.Status = ""
	pred, err := filter.Predicate()
	if err != nil {
		return Summary{}, err
	}
	totals, err := s.Store.Totals(ctx, pred)
	if err != nil {
		return Summary{}, err
	}

	observed := make(map[string]int, len(totals))
	for status, t := range totals {
		observed[status] = t.Count
	}
	counts := query.Tally(Statuses, observed)
	pending := totals[StatusPending].Amount
	paid := totals[StatusPaid].Amount
	return Summary{
		Pending:       counts[StatusPending],
		Paid:          counts[StatusPaid],
		TotalRecords:  counts.Total(),
		PendingAmount: pending,
		PaidAmount:    paid,
		TotalAmount:   pending.Add(paid),
	}, nil
}

func (s *Service) ensureUnique(ctx context.Context, sal Salary, excludeID string) error {
	exists, err := s.Store.Exists(ctx, sal.key(), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errDuplicate
	}
	return nil
}

func apply(sal *Salary, in Input) error {
	var err error
	if in.LabourerID != nil {
		if sal.LabourerID, err = query.RequireID("labourerId", *in.LabourerID); err != nil {
			return err
		}
	}
	if in.StartPeriod != nil {
		if sal.StartPeriod, err = query.RequireDay("startPeriod", *in.StartPeriod); err != nil {
			return err
		}
	}
	if in.EndPeriod != nil {
		if sal.EndPeriod, err = query.RequireDay("endPeriod", *in.EndPeriod); err != nil {
			return err
		}
	}
	if sal.StartPeriod.After(sal.EndPeriod) {
		return apperr.InvalidDateRange("startPeriod", "endPeriod")
	}
	if in.TotalDaysPresent != nil {
		if *in.TotalDaysPresent < 0 {
			return apperr.Validation("totalDaysPresent", "must be zero or greater")
		}
		sal.TotalDaysPresent = *in.TotalDaysPresent
	}
	if in.DailyWage != nil {
		if sal.DailyWage, err = requireWage(in.DailyWage); err != nil {
			return err
		}
	}
	sal.TotalSalary = total(sal.TotalDaysPresent, sal.DailyWage)
	return nil
}

func period(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := query.RequireDay("startPeriod", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := query.RequireDay("endPeriod", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperr.InvalidDateRange("startPeriod", "endPeriod")
	}
	return start, end, nil
}

func requireWage(wage *decimal.Decimal) (decimal.Decimal, error) {
	if wage == nil {
		return decimal.Zero, apperr.Validation("dailyWage", "is required")
	}
	if wage.IsNegative() {
		return decimal.Zero, apperr.Validation("dailyWage", "must be a non-negative number")
	}
	return wage.Round(2), nil
}

func total(days int, wage decimal.Decimal) decimal.Decimal {
	return wage.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

func describe(err error) string {
	if appErr, ok := apperr.As(err); ok {
		return appErr.Error()
	}
	return "failed to insert salary record"
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("salary")
	case db.IsUniqueViolation(err):
		return errDuplicate
	case db.IsForeignKeyViolation(err):
		return apperr.Validation("labourerId", "does not reference an existing labourer")
	case db.IsCheckViolation(err):
		return apperr.Validation("", "salary values are out of range")
	}
	return err
}
