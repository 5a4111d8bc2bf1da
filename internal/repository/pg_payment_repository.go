package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shopspring/decimal"
)

type pgPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPgPaymentRepository returns a PostgreSQL-backed PaymentRepository.
func NewPgPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &pgPaymentRepository{pool: pool}
}

const paymentSelectCols = `id, event_id, amount::text, method, answers, status,
	COALESCE(gateway_ref, ''), created_at, updated_at`

func scanPayment(scan func(...any) error) (*model.Payment, error) {
	p := &model.Payment{}
	var amount, method string
	var answers []byte
	err := scan(
		&p.ID, &p.EventID, &amount, &method, &answers, &p.Status,
		&p.GatewayRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("payment %s: bad amount: %w", p.ID, err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &p.Answers); err != nil {
			return nil, fmt.Errorf("payment %s: bad answers: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *pgPaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	answers, err := json.Marshal(p.Answers)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO payments (event_id, amount, method, answers, status)
		 VALUES ($1, $2::numeric, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.EventID, p.Amount.String(), string(p.Method), answers, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *pgPaymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentSelectCols+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pgPaymentRepository) UpdateStatus(ctx context.Context, id, status, gatewayRef string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2, gateway_ref = NULLIF($3,''), updated_at = NOW()
		 WHERE id = $1`,
		id, status, gatewayRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgPaymentRepository) ListByEventIDs(ctx context.Context, eventIDs []string) ([]*model.Payment, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentSelectCols+` FROM payments
		 WHERE event_id = ANY($1) ORDER BY created_at DESC`, eventIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
