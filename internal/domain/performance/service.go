package performance

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"

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

var errDuplicate = apperr.Conflict(CodeDuplicate, "performance already recorded for this labourer, project and date")

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		ID("pf.labourer_id", "labourerId", f.LabourerID).
		ID("pf.project_id", "projectId", f.ProjectID).
		On("pf.date", "date", f.Date).
		Within("pf.date", "startDate", f.StartDate, "endDate", f.EndDate).
		Number("pf.score", ">=", "minScore", f.MinScore).
		Number("pf.score", "<=", "maxScore", f.MaxScore).
		Build()
}

func (p Performance) key() Key {
	return Key{LabourerID: p.LabourerID, ProjectID: p.ProjectID, Date: p.Date}
}

func (s *Service) Create(ctx context.Context, in Input, evaluatedBy string) (Performance, error) {
	required := []struct {
		field   string
		missing bool
	}{
		{"labourerId", in.LabourerID == nil},
		{"projectId", in.ProjectID == nil},
		{"date", in.Date == nil},
		{"performanceScore", in.Score == nil},
		{"remarks", in.Remarks == nil},
	}
	for _, r := range required {
		if r.missing {
			return Performance{}, apperr.Validation(r.field, "is required")
		}
	}
	var p Performance
	if err := apply(&p, in); err != nil {
		return Performance{}, err
	}
	if err := s.ensureUnique(ctx, p, ""); err != nil {
		return Performance{}, err
	}

	p.ID = objectid.New()
	p.EvaluatedBy = evaluator(evaluatedBy)
	if err := s.Store.Create(ctx, p); err != nil {
		return Performance{}, mapWriteError(err)
	}
	return s.Get(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id string) (Performance, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Performance{}, err
	}
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Performance{}, mapWriteError(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input, evaluatedBy string) (Performance, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Performance{}, err
	}
	if err := apply(&current, in); err != nil {
		return Performance{}, err
	}
	if err := s.ensureUnique(ctx, current, current.ID); err != nil {
		return Performance{}, err
	}
	if e := evaluator(evaluatedBy); e != nil {
		current.EvaluatedBy = e
	}
	if err := s.Store.Update(ctx, current); err != nil {
		return Performance{}, mapWriteError(err)
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

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Performance], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Performance]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Performance]{}, err
	}
	return query.NewResult(page, items, total), nil
}

// SummaryByLabourer aggregates every score of one labourer, optionally
// limited to a date window. A labourer with no records gets all zeroes.
func (s *Service) SummaryByLabourer(ctx context.Context, labourerID, startDate, endDate string) (Summary, error) {
	labourerID, err := query.RequireID("labourerId", labourerID)
	if err != nil {
		return Summary{}, err
	}
	pred, err := query.NewBuilder().
		Eq("pf.labourer_id", labourerID).
		Within("pf.date", "startDate", startDate, "endDate", endDate).
		Build()
	if err != nil {
		return Summary{}, err
	}
	st, err := s.Store.Stats(ctx, pred)
	if err != nil {
		return Summary{}, err
	}
	if st.Count == 0 {
		return Summary{}, nil
	}
	avg := decimal.NewFromFloat(st.Sum).Div(decimal.NewFromInt(int64(st.Count))).Round(2)
	return Summary{
		Count:        st.Count,
		AverageScore: avg.InexactFloat64(),
		MinScore:     st.Min,
		MaxScore:     st.Max,
	}, nil
}

func (s *Service) ensureUnique(ctx context.Context, p Performance, excludeID string) error {
	exists, err := s.Store.Exists(ctx, p.key(), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errDuplicate
	}
	return nil
}

func apply(p *Performance, in Input) error {
	var err error
	if in.LabourerID != nil {
		if p.LabourerID, err = query.RequireID("labourerId", *in.LabourerID); err != nil {
			return err
		}
	}
	if in.ProjectID != nil {
		if p.ProjectID, err = query.RequireID("projectId", *in.ProjectID); err != nil {
			return err
		}
	}
	if in.Date != nil {
		if p.Date, err = query.RequireDay("date", *in.Date); err != nil {
			return err
		}
	}
	if in.Score != nil {
		score := *in.Score
		if math.IsNaN(score) || score < MinScore || score > MaxScore {
			return apperr.Validationf("performanceScore", "must be between %d and %d", MinScore, MaxScore)
		}
		p.Score = score
	}
	if in.Remarks != nil {
		if p.Remarks, err = query.RequireText("remarks", *in.Remarks, 1, maxRemarks); err != nil {
			return err
		}
	}
	return nil
}

func evaluator(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("performance record")
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
		return apperr.Validation("evaluatedBy", "does not reference an existing user")
	case db.IsCheckViolation(err):
		return apperr.Validationf("performanceScore", "must be between %d and %d", MinScore, MaxScore)
	}
	return err
}
