package notification

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/metrics"
	"labourhub/internal/platform/objectid"
)

// ErrNoLinkedUser is returned when a labourer has no account to notify.
var ErrNoLinkedUser = errors.New("labourer has no linked user account")

type Service struct {
	Store   StoreAPI
	Senders map[string]Sender
	log     zerolog.Logger
}

func NewService(store StoreAPI, senders map[string]Sender) *Service {
	return &Service{Store: store, Senders: senders, log: logging.WithComponent("notification")}
}

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		Raw("n.lifecycle = 'active'").
		ID("n.user_id", "userId", f.UserID).
		Enum("n.status", "status", f.Status, Statuses).
		Enum("n.type", "type", f.Type, Types).
		Build()
}

// Send stores a notification and delivers it over its channel. A delivery
// failure is recorded as status failed rather than returned.
func (s *Service) Send(ctx context.Context, in SendInput) (Notification, error) {
	var n Notification
	var err error
	if n.UserID, err = query.RequireID("userId", in.UserID); err != nil {
		return Notification{}, err
	}
	if n.Message, err = query.RequireText("message", in.Message, 1, maxMessage); err != nil {
		return Notification{}, err
	}
	if n.Type, err = query.RequireEnum("type", in.Type, Types); err != nil {
		return Notification{}, err
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = defaultSubject
	}

	to, err := s.Store.Recipient(ctx, n.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return Notification{}, apperr.NotFound("user")
		}
		return Notification{}, err
	}

	n.Status = StatusSent
	if err := s.deliver(ctx, n.Type, to, subject, n.Message); err != nil {
		s.log.Warn().Err(err).Str("userId", n.UserID).Str("type", n.Type).Msg("notification delivery failed")
		n.Status = StatusFailed
	}
	metrics.NotificationsSent.WithLabelValues(n.Type, n.Status).Inc()

	n.ID = objectid.New()
	if err := s.Store.Create(ctx, n); err != nil {
		return Notification{}, mapWriteError(err)
	}
	return s.Store.Get(ctx, n.ID)
}

// NotifyLabourer emails the account linked to a labourer profile.
func (s *Service) NotifyLabourer(ctx context.Context, labourerID, subject, message string) error {
	userID, err := s.Store.LabourerUserID(ctx, labourerID)
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrNoLinkedUser
	}
	n, err := s.Send(ctx, SendInput{UserID: userID, Message: message, Type: TypeEmail, Subject: subject})
	if err != nil {
		return err
	}
	if n.Status == StatusFailed {
		return errors.New("email delivery failed")
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, channel string, to Recipient, subject, body string) error {
	sender, ok := s.Senders[channel]
	if !ok || sender == nil {
		return errors.New("no sender configured for " + channel)
	}
	return sender.Send(ctx, to, subject, body)
}

// ListOwn lists the caller's active notifications.
func (s *Service) ListOwn(ctx context.Context, userID string, filter Filter, page query.Page) (query.Result[Notification], error) {
	filter.UserID = userID
	return s.List(ctx, filter, page)
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Notification], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Notification]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Notification]{}, err
	}
	return query.NewResult(page, items, total), nil
}

func (s *Service) MarkRead(ctx context.Context, id string, user auth.UserContext) (Notification, error) {
	n, err := s.get(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if n.UserID != user.UserID {
		return Notification{}, apperr.Forbidden("only the recipient can mark a notification as read")
	}
	if err := s.Store.MarkRead(ctx, n.ID); err != nil {
		return Notification{}, mapWriteError(err)
	}
	return s.get(ctx, n.ID)
}

// Delete moves a notification to the deleted lifecycle state. Deleting it
// again reports NotFound.
func (s *Service) Delete(ctx context.Context, id string, user auth.UserContext) error {
	n, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != user.UserID && user.Role != auth.RoleAdmin {
		return apperr.Forbidden("only the recipient or an admin can delete a notification")
	}
	return mapWriteError(s.Store.SoftDelete(ctx, n.ID))
}

func (s *Service) get(ctx context.Context, id string) (Notification, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Notification{}, err
	}
	n, err := s.Store.Get(ctx, id)
	if err != nil {
		return Notification{}, mapWriteError(err)
	}
	return n, nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("notification")
	case db.IsForeignKeyViolation(err):
		return apperr.Validation("userId", "does not reference an existing user")
	}
	return err
}
