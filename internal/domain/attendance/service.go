package attendance

import (
	"context"
	"sort"
	"strings"
	"time"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/objectid"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

var errDuplicate = apperr.Conflict(CodeDuplicate, "attendance already recorded for this labourer, project, date and shift")

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		ID("a.labourer_id", "labourerId", f.LabourerID).
		ID("a.project_id", "projectId", f.ProjectID).
		Enum("a.status", "status", f.Status, Statuses).
		Enum("a.shift", "shift", f.Shift, Shifts).
		On("a.date", "date", f.Date).
		Within("a.date", "startDate", f.StartDate, "endDate", f.EndDate).
		ID("a.marked_by", "markedBy", f.MarkedBy).
		Build()
}

// Validate checks one entry in isolation and returns the record it describes.
func Validate(in Input) (Attendance, error) {
	var a Attendance
	var err error
	if a.LabourerID, err = query.RequireID("labourerId", in.LabourerID); err != nil {
		return Attendance{}, err
	}
	if a.ProjectID, err = query.RequireID("projectId", in.ProjectID); err != nil {
		return Attendance{}, err
	}
	if a.Date, err = query.RequireDay("date", in.Date); err != nil {
		return Attendance{}, err
	}
	if a.Shift, err = query.RequireEnum("shift", in.Shift, Shifts); err != nil {
		return Attendance{}, err
	}
	if a.Status, err = query.RequireEnum("status", in.Status, Statuses); err != nil {
		return Attendance{}, err
	}
	return a, nil
}

func (a Attendance) key() Key {
	return Key{LabourerID: a.LabourerID, ProjectID: a.ProjectID, Date: a.Date, Shift: a.Shift}
}

func (s *Service) Create(ctx context.Context, in Input, markedBy string) (Attendance, error) {
	a, err := Validate(in)
	if err != nil {
		return Attendance{}, err
	}
	exists, err := s.Store.Exists(ctx, a.key(), "")
	if err != nil {
		return Attendance{}, err
	}
	if exists {
		return Attendance{}, errDuplicate
	}

	a.ID = objectid.New()
	a.MarkedBy = marker(markedBy)
	if err := s.Store.Create(ctx, a); err != nil {
		return Attendance{}, mapWriteError(err)
	}
	return s.Get(ctx, a.ID)
}

// Bulk validates every entry independently and inserts the valid ones one by
// one. A failed insert does not stop the rest; validation and insert failures
// are reported together, ordered by entry index.
func (s *Service) Bulk(ctx context.Context, entries []Input, markedBy string) (BulkResult, error) {
	if len(entries) == 0 {
		return BulkResult{}, apperr.Validation("records", "must contain at least one entry")
	}
	if len(entries) > MaxBulkEntries {
		return BulkResult{}, apperr.Validationf("records", "must contain at most %d entries", MaxBulkEntries)
	}

	type candidate struct {
		index  int
		record Attendance
	}
	var valid []candidate
	failures := make([]BulkFailure, 0)
	for i, entry := range entries {
		a, err := Validate(entry)
		if err != nil {
			failures = append(failures, BulkFailure{Index: i, Error: err.Error(), Record: entry})
			continue
		}
		valid = append(valid, candidate{index: i, record: a})
	}
	if len(valid) == 0 {
		return BulkResult{}, &apperr.Error{
			Kind:    apperr.KindValidation,
			Code:    apperr.CodeValidation,
			Message: "no valid attendance records to insert",
			Details: map[string]any{"failed": failures},
		}
	}

	result := BulkResult{Inserted: make([]Attendance, 0, len(valid))}
	now := time.Now().UTC()
	for _, c := range valid {
		c.record.ID = objectid.New()
		c.record.MarkedBy = marker(markedBy)
		c.record.CreatedAt, c.record.UpdatedAt = now, now
		if err := s.Store.Create(ctx, c.record); err != nil {
			failures = append(failures, BulkFailure{Index: c.index, Error: describe(mapWriteError(err)), Record: entries[c.index]})
			continue
		}
		result.Inserted = append(result.Inserted, c.record)
	}

	sortFailures(failures)
	result.Failed = failures
	result.InsertedCount = len(result.Inserted)
	result.FailedCount = len(failures)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (Attendance, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Attendance{}, err
	}
	a, err := s.Store.Get(ctx, id)
	if err != nil {
		return Attendance{}, mapWriteError(err)
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput, markedBy string) (Attendance, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	merged := Input{
		LabourerID: pick(in.LabourerID, current.LabourerID),
		ProjectID:  pick(in.ProjectID, current.ProjectID),
		Date:       pick(in.Date, query.FormatDay(current.Date)),
		Shift:      pick(in.Shift, current.Shift),
		Status:     pick(in.Status, current.Status),
	}
	next, err := Validate(merged)
	if err != nil {
		return Attendance{}, err
	}
	exists, err := s.Store.Exists(ctx, next.key(), current.ID)
	if err != nil {
		return Attendance{}, err
	}
	if exists {
		return Attendance{}, errDuplicate
	}

	next.ID = current.ID
	next.MarkedBy = marker(markedBy)
	if next.MarkedBy == nil {
		next.MarkedBy = current.MarkedBy
	}
	if err := s.Store.Update(ctx, next); err != nil {
		return Attendance{}, mapWriteError(err)
	}
	return s.Get(ctx, current.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := query.RequireID("id", id)
	if err != nil {
		return err
	}
	return mapWriteError(s.Store.Delete(ctx, id))
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Attendance], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Attendance]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Attendance]{}, err
	}
	return query.NewResult(page, items, total), nil
}

// Export returns at most max records matching filter, newest first.
func (s *Service) Export(ctx context.Context, filter Filter, max int) ([]Attendance, error) {
	pred, err := filter.Predicate()
	if err != nil {
		return nil, err
	}
	return s.Store.Export(ctx, pred, max)
}

func (s *Service) SummaryByLabourer(ctx context.Context, labourerID, startDate, endDate string) (Summary, error) {
	return s.summary(ctx, "a.labourer_id", "labourerId", labourerID, startDate, endDate)
}

func (s *Service) SummaryByProject(ctx context.Context, projectID, startDate, endDate string) (Summary, error) {
	return s.summary(ctx, "a.project_id", "projectId", projectID, startDate, endDate)
}

func (s *Service) summary(ctx context.Context, column, field, id, startDate, endDate string) (Summary, error) {
	id, err := query.RequireID(field, id)
	if err != nil {
		return Summary{}, err
	}
	pred, err := query.NewBuilder().
		Eq(column, id).
		Within("a.date", "startDate", startDate, "endDate", endDate).
		Build()
	if err != nil {
		return Summary{}, err
	}
	observed, err := s.Store.CountByStatus(ctx, pred)
	if err != nil {
		return Summary{}, err
	}
	counts := query.Tally(Statuses, observed)
	return Summary{
		Present:      counts[StatusPresent],
		Absent:       counts[StatusAbsent],
		HalfDay:      counts[StatusHalfDay],
		TotalRecords: counts.Total(),
	}, nil
}

func marker(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

func pick(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func describe(err error) string {
	if appErr, ok := apperr.As(err); ok {
		return appErr.Error()
	}
	return "failed to insert attendance record"
}

func sortFailures(failures []BulkFailure) {
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Index < failures[j].Index
	})
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("attendance record")
	case db.IsUniqueViolation(err):
		return errDuplicate
	case db.IsForeignKeyViolation(err):
		name := db.ConstraintName(err)
		switch {
		case strings.Contains(name, "labourer_id"):
			return apperr.Validation("labourerId", "does not reference an existing labourer")
		case strings.Contains(name, "project_id"):
			return apperr.Validation("projectId", "does not reference an existing project")
		}
		return apperr.Validation("markedBy", "does not reference an existing user")
	}
	return err
}
