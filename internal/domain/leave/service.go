package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/objectid"
)

// Notifier delivers a message to the account linked to a labourer.
type Notifier interface {
	NotifyLabourer(ctx context.Context, labourerID, subject, message string) error
}

type Service struct {
	Store    StoreAPI
	Notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{
		Store:    store,
		Notifier: notifier,
		log:      logging.WithComponent("leave"),
		now:      time.Now,
	}
}

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		ID("lv.labourer_id", "labourerId", f.LabourerID).
		Enum("lv.status", "status", f.Status, Statuses).
		Overlap("lv.from_date", "lv.to_date", "fromDate", f.FromDate, "toDate", f.ToDate).
		Build()
}

func (s *Service) Apply(ctx context.Context, in ApplyInput) (Leave, error) {
	var l Leave
	var err error
	if l.LabourerID, err = query.RequireID("labourerId", in.LabourerID); err != nil {
		return Leave{}, err
	}
	if l.FromDate, err = query.RequireDay("fromDate", in.FromDate); err != nil {
		return Leave{}, err
	}
	if l.ToDate, err = query.RequireDay("toDate", in.ToDate); err != nil {
		return Leave{}, err
	}
	if l.ToDate.Before(l.FromDate) {
		return Leave{}, apperr.InvalidDateRange("fromDate", "toDate")
	}
	if l.Reason, err = query.RequireText("reason", in.Reason, 1, maxReason); err != nil {
		return Leave{}, err
	}

	l.ID = objectid.New()
	l.Status = StatusPending
	if err := s.Store.Create(ctx, l); err != nil {
		return Leave{}, mapWriteError(err)
	}
	return s.Get(ctx, l.ID)
}

func (s *Service) Get(ctx context.Context, id string) (Leave, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Leave{}, err
	}
	l, err := s.Store.Get(ctx, id)
	if err != nil {
		return Leave{}, mapWriteError(err)
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Leave], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Leave]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Leave]{}, err
	}
	return query.NewResult(page, items, total), nil
}

func (s *Service) Approve(ctx context.Context, id, reviewerID string, in ReviewInput) (Leave, error) {
	return s.review(ctx, id, StatusApproved, reviewerID, in)
}

func (s *Service) Reject(ctx context.Context, id, reviewerID string, in ReviewInput) (Leave, error) {
	return s.review(ctx, id, StatusRejected, reviewerID, in)
}

func (s *Service) review(ctx context.Context, id, status, reviewerID string, in ReviewInput) (Leave, error) {
	remark, err := query.RequireText("remark", in.Remark, 0, maxRemark)
	if err != nil {
		return Leave{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}
	if current.Status != StatusPending {
		return Leave{}, invalidState(current.Status, "reviewed")
	}

	var reviewer *string
	if reviewerID != "" {
		reviewer = &reviewerID
	}
	ok, err := s.Store.Review(ctx, current.ID, status, reviewer, remark, s.now().UTC())
	if err != nil {
		return Leave{}, mapWriteError(err)
	}
	if !ok {
		// Reviewed concurrently between the read and the write.
		latest, err := s.Get(ctx, current.ID)
		if err != nil {
			return Leave{}, err
		}
		return Leave{}, invalidState(latest.Status, "reviewed")
	}

	updated, err := s.Get(ctx, current.ID)
	if err != nil {
		return Leave{}, err
	}
	s.notify(ctx, updated)
	return updated, nil
}

// Cancel deletes a leave that has not been reviewed yet.
func (s *Service) Cancel(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != StatusPending {
		return invalidState(current.Status, "cancelled")
	}
	ok, err := s.Store.DeletePending(ctx, current.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict(CodeInvalidState, "leave is no longer pending and cannot be cancelled")
	}
	return nil
}

func (s *Service) notify(ctx context.Context, l Leave) {
	if s.Notifier == nil {
		return
	}
	subject := "Leave " + l.Status
	message := fmt.Sprintf("Your leave from %s to %s has been %s.",
		query.FormatDay(l.FromDate), query.FormatDay(l.ToDate), l.Status)
	if l.Remark != "" {
		message += " Remark: " + l.Remark
	}
	if err := s.Notifier.NotifyLabourer(ctx, l.LabourerID, subject, message); err != nil {
		s.log.Warn().Err(err).Str("leaveId", l.ID).Msg("leave decision notification failed")
	}
}

func invalidState(status, action string) error {
	return apperr.Conflict(CodeInvalidState, fmt.Sprintf("only pending leaves can be %s; this leave is %s", action, status))
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("leave")
	case db.IsForeignKeyViolation(err):
		return apperr.Validation("labourerId", "does not reference an existing labourer")
	case db.IsCheckViolation(err):
		return apperr.InvalidDateRange("fromDate", "toDate")
	}
	return err
}
