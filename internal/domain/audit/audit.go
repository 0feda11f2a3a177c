package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"labourhub/internal/domain/query"
	"labourhub/internal/platform/objectid"
	"labourhub/internal/platform/querier"
)

// Actions recorded by the API.
const (
	ActionSalaryGenerate = "salary.generate"
	ActionSalaryPay      = "salary.pay"
	ActionSalaryDelete   = "salary.delete"
	ActionLeaveApprove   = "leave.approve"
	ActionLeaveReject    = "leave.reject"
	ActionUserRoleChange = "user.role_change"
	ActionUserDelete     = "user.delete"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    *string         `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorUser  string
}

func (f Filter) Predicate() (query.Predicate, error) {
	b := query.NewBuilder()
	if f.Action != "" {
		b.Eq("action", f.Action)
	}
	if f.EntityType != "" {
		b.Eq("entity_type", f.EntityType)
	}
	return b.ID("actor_user_id", "actorUserId", f.ActorUser).Build()
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	var beforeJSON, afterJSON []byte
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			return err
		}
		beforeJSON = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			return err
		}
		afterJSON = payload
	}
	var actor *string
	if actorID != "" {
		actor = &actorID
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (id, actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, objectid.New(), actor, action, entityType, entityID, beforeJSON, afterJSON, requestID, ip)
	return err
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Event], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Event]{}, err
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM audit_events "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return query.Result[Event]{}, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT id, actor_user_id, action, entity_type, entity_id, request_id, ip, created_at, before_json, after_json
    FROM audit_events
    %s
    ORDER BY created_at DESC
    %s
  `, pred.Where(), limit), args...)
	if err != nil {
		return query.Result[Event]{}, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		var before, after []byte
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt, &before, &after); err != nil {
			return query.Result[Event]{}, err
		}
		evt.Before, evt.After = before, after
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return query.Result[Event]{}, err
	}
	return query.NewResult(page, out, total), nil
}
