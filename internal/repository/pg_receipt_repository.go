package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaderlpay/backend/internal/model"
)

type pgReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewPgReceiptRepository returns a PostgreSQL-backed ReceiptRepository.
func NewPgReceiptRepository(pool *pgxpool.Pool) ReceiptRepository {
	return &pgReceiptRepository{pool: pool}
}

const receiptSelectCols = `id, payment_id, COALESCE(contributor_id, ''),
	rendered_fields, include_qr, COALESCE(qr_payload, ''), layout, align,
	COALESCE(accent_color, ''), COALESCE(school, 'null'::jsonb), created_at`

func scanReceipt(scan func(...any) error) (*model.Receipt, error) {
	rc := &model.Receipt{}
	var rendered, school []byte
	err := scan(
		&rc.ID, &rc.PaymentID, &rc.ContributorID, &rendered, &rc.IncludeQR,
		&rc.QRPayload, &rc.Layout, &rc.Align, &rc.AccentColor, &school, &rc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rendered, &rc.RenderedFields); err != nil {
		return nil, fmt.Errorf("receipt %s: bad rendered_fields: %w", rc.ID, err)
	}
	if len(school) > 0 && string(school) != "null" {
		s := &model.ReceiptSchool{}
		if err := json.Unmarshal(school, s); err != nil {
			return nil, fmt.Errorf("receipt %s: bad school block: %w", rc.ID, err)
		}
		rc.School = s
	}
	return rc, nil
}

func (r *pgReceiptRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+receiptSelectCols+` FROM receipts WHERE payment_id = $1`, paymentID)
	rc, err := scanReceipt(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}

// Upsert replaces the receipt for a payment. Receipts are derived data —
// regenerating after a receipt-config edit overwrites the stored projection.
func (r *pgReceiptRepository) Upsert(ctx context.Context, rc *model.Receipt) error {
	rendered, err := json.Marshal(rc.RenderedFields)
	if err != nil {
		return err
	}
	var school []byte
	if rc.School != nil {
		school, err = json.Marshal(rc.School)
		if err != nil {
			return err
		}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO receipts
		 (payment_id, contributor_id, rendered_fields, include_qr, qr_payload,
		  layout, align, accent_color, school)
		 VALUES ($1, NULLIF($2,''), $3, $4, NULLIF($5,''), $6, $7, NULLIF($8,''), $9)
		 ON CONFLICT (payment_id) DO UPDATE SET
		   rendered_fields = EXCLUDED.rendered_fields,
		   include_qr = EXCLUDED.include_qr,
		   qr_payload = EXCLUDED.qr_payload,
		   layout = EXCLUDED.layout,
		   align = EXCLUDED.align,
		   accent_color = EXCLUDED.accent_color,
		   school = EXCLUDED.school
		 RETURNING id, created_at`,
		rc.PaymentID, rc.ContributorID, rendered, rc.IncludeQR, rc.QRPayload,
		rc.Layout, rc.Align, rc.AccentColor, school,
	).Scan(&rc.ID, &rc.CreatedAt)
}

func (r *pgReceiptRepository) ListByEventIDs(ctx context.Context, eventIDs []string) ([]*model.Receipt, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+receiptSelectCols+` FROM receipts
		 WHERE payment_id IN (SELECT id FROM payments WHERE event_id = ANY($1))`,
		eventIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}
