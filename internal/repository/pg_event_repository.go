package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shopspring/decimal"
)

type pgEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgEventRepository returns a PostgreSQL-backed EventRepository.
func NewPgEventRepository(pool *pgxpool.Pool) EventRepository {
	return &pgEventRepository{pool: pool}
}

const eventSelectCols = `id, slug, organizer_id, COALESCE(school_id, ''), type, title,
	COALESCE(description, ''), COALESCE(image_url, ''), status, is_locked,
	COALESCE(fundraising_goal::text, ''), deadline, methods,
	COALESCE(receipt_config, 'null'::jsonb), created_at, updated_at`

func scanEvent(scan func(...any) error) (*model.Event, error) {
	e := &model.Event{}
	var goal string
	var methods []string
	var receiptCfg []byte
	err := scan(
		&e.ID, &e.Slug, &e.OrganizerID, &e.SchoolID, &e.Type, &e.Title,
		&e.Description, &e.ImageURL, &e.Status, &e.IsLocked,
		&goal, &e.Deadline, &methods, &receiptCfg, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if goal != "" {
		d, err := decimal.NewFromString(goal)
		if err != nil {
			return nil, fmt.Errorf("event %s: bad fundraising_goal: %w", e.ID, err)
		}
		e.FundraisingGoal = &d
	}
	for _, m := range methods {
		e.Methods = append(e.Methods, model.PaymentMethod(m))
	}
	if len(receiptCfg) > 0 && string(receiptCfg) != "null" {
		cfg := &model.ReceiptConfig{}
		if err := json.Unmarshal(receiptCfg, cfg); err != nil {
			return nil, fmt.Errorf("event %s: bad receipt_config: %w", e.ID, err)
		}
		e.ReceiptConfig = cfg
	}
	return e, nil
}

func (r *pgEventRepository) Create(ctx context.Context, e *model.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var goal *string
	if e.FundraisingGoal != nil {
		s := e.FundraisingGoal.String()
		goal = &s
	}
	methods := make([]string, 0, len(e.Methods))
	for _, m := range e.Methods {
		methods = append(methods, string(m))
	}
	receiptCfg, err := json.Marshal(e.ReceiptConfig)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO events
		 (slug, organizer_id, school_id, type, title, description, image_url,
		  status, is_locked, fundraising_goal, deadline, methods, receipt_config)
		 VALUES ($1, $2, NULLIF($3,''), $4, $5, NULLIF($6,''), NULLIF($7,''),
		         $8, $9, $10::numeric, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		e.Slug, e.OrganizerID, e.SchoolID, e.Type, e.Title, e.Description,
		e.ImageURL, e.Status, e.IsLocked, goal, e.Deadline, methods, receiptCfg,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicate
		}
		return err
	}

	if err := insertFields(ctx, tx, e.ID, e.Fields); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertFields writes the event's field rows inside the caller's transaction.
func insertFields(ctx context.Context, tx pgx.Tx, eventID string, fields []*model.FieldDef) error {
	for i, f := range fields {
		var condition []byte
		if f.Condition != nil {
			b, err := json.Marshal(f.Condition)
			if err != nil {
				return err
			}
			condition = b
		}
		f.EventID = eventID
		f.SortOrder = i
		_, err := tx.Exec(ctx,
			`INSERT INTO event_fields
			 (id, event_id, label, type, required, read_only, options,
			  min_value, max_value, default_value, condition, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,''), $11, $12)`,
			f.ID, eventID, f.Label, string(f.Type), f.Required, f.ReadOnly,
			f.Options, f.Min, f.Max, f.DefaultValue, condition, i,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *pgEventRepository) loadFields(ctx context.Context, e *model.Event) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, event_id, label, type, required, read_only, options,
		        min_value, max_value, COALESCE(default_value, ''),
		        COALESCE(condition, 'null'::jsonb), sort_order
		 FROM event_fields WHERE event_id = $1 ORDER BY sort_order`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		f := &model.FieldDef{}
		var typ string
		var condition []byte
		if err := rows.Scan(
			&f.ID, &f.EventID, &f.Label, &typ, &f.Required, &f.ReadOnly,
			&f.Options, &f.Min, &f.Max, &f.DefaultValue, &condition, &f.SortOrder,
		); err != nil {
			return err
		}
		f.Type = model.FieldType(typ)
		if len(condition) > 0 && string(condition) != "null" {
			c := &model.Condition{}
			if err := json.Unmarshal(condition, c); err != nil {
				return err
			}
			f.Condition = c
		}
		e.Fields = append(e.Fields, f)
	}
	return rows.Err()
}

func (r *pgEventRepository) getBy(ctx context.Context, where, arg string) (*model.Event, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+eventSelectCols+` FROM events WHERE `+where+` = $1`, arg)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadFields(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgEventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return r.getBy(ctx, "id", id)
}

func (r *pgEventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *pgEventRepository) ListForScope(ctx context.Context, scope model.Scope) ([]*model.Event, error) {
	where := "organizer_id = $1"
	args := []any{scope.OrganizerID}
	switch scope.SchoolMode {
	case model.SchoolEither:
		where = "(organizer_id = $1 OR school_id = $2)"
		args = append(args, scope.SchoolID)
	case model.SchoolBoth:
		where = "(organizer_id = $1 AND school_id = $2)"
		args = append(args, scope.SchoolID)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+eventSelectCols+` FROM events WHERE `+where+` ORDER BY created_at DESC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range list {
		if err := r.loadFields(ctx, e); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *pgEventRepository) Update(ctx context.Context, e *model.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var goal *string
	if e.FundraisingGoal != nil {
		s := e.FundraisingGoal.String()
		goal = &s
	}
	methods := make([]string, 0, len(e.Methods))
	for _, m := range e.Methods {
		methods = append(methods, string(m))
	}
	receiptCfg, err := json.Marshal(e.ReceiptConfig)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE events SET
		   type = $2, title = $3, description = NULLIF($4,''),
		   image_url = NULLIF($5,''), status = $6, is_locked = $7,
		   fundraising_goal = $8::numeric, deadline = $9, methods = $10,
		   receipt_config = $11, updated_at = NOW()
		 WHERE id = $1`,
		e.ID, e.Type, e.Title, e.Description, e.ImageURL, e.Status, e.IsLocked,
		goal, e.Deadline, methods, receiptCfg,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Field schema is replaced wholesale; diffing against selected payment
	// methods happens in the service before this call.
	if _, err := tx.Exec(ctx, `DELETE FROM event_fields WHERE event_id = $1`, e.ID); err != nil {
		return err
	}
	if err := insertFields(ctx, tx, e.ID, e.Fields); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgEventRepository) UpdateStatus(ctx context.Context, id, status string, isLocked bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET status = $2, is_locked = $3, updated_at = NOW() WHERE id = $1`,
		id, status, isLocked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the event row; fields, payments and receipts cascade via
// foreign keys.
func (r *pgEventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgEventRepository) CountByOrganizer(ctx context.Context, organizerID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE organizer_id = $1`, organizerID).Scan(&n)
	return n, err
}

// LockExpired marks approved events whose deadline has passed as locked and
// returns how many were affected.
func (r *pgEventRepository) LockExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET status = 'locked', is_locked = TRUE, updated_at = NOW()
		 WHERE status = 'approved' AND deadline IS NOT NULL AND deadline < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
