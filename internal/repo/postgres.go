package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/pkg/trm"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateTransaction inserts the payment transaction. The unique session_id
// makes a retried payment submit reuse the first row instead of creating a
// second one.
func (r *postgresRepo) CreateTransaction(ctx context.Context, t entities.PaymentTransaction) error {
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query, args := r.qb.Insert("payment_transactions").
		Columns(
			"transaction_id", "session_id", "user_id", "amount", "currency",
			"card_last_four", "card_brand", "status", "otp_verified", "metadata",
		).
		Values(
			t.ID, t.SessionID, t.UserID, t.Amount, t.Currency,
			t.CardLastFour, string(t.CardBrand), string(t.Status), false, metadata,
		).
		Suffix("ON CONFLICT (session_id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetTransactionBySession(ctx context.Context, sessionID string) (entities.PaymentTransaction, error) {
	query, args := r.qb.Select(
		"transaction_id", "session_id", "user_id", "amount", "currency",
		"card_last_four", "card_brand", "status", "otp_verified", "order_id",
		"metadata", "created_at", "updated_at").
		From("payment_transactions").
		Where(sq.Eq{"session_id": sessionID}).
		MustSql()

	var t PaymentTransaction
	err := r.getContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.PaymentTransaction{}, entities.ErrTransactionNotFound
	}
	if err != nil {
		return entities.PaymentTransaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return TransactionToEntity(t)
}

func (r *postgresRepo) MarkOTPVerified(ctx context.Context, id string) error {
	query, args := r.qb.Update("payment_transactions").
		Set("status", string(entities.TransactionOTPVerified)).
		Set("otp_verified", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"transaction_id": id}).
		Where(sq.Eq{"status": []string{
			string(entities.TransactionPendingOTP),
			string(entities.TransactionOTPVerified),
		}}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark transaction otp verified: %w", err)
	}
	return requireAffected(res)
}

func (r *postgresRepo) MarkConfirmed(ctx context.Context, id, orderID string) error {
	query, args := r.qb.Update("payment_transactions").
		Set("status", string(entities.TransactionConfirmed)).
		Set("order_id", orderID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"transaction_id": id}).
		Where(sq.Eq{"status": []string{
			string(entities.TransactionOTPVerified),
			string(entities.TransactionConfirmed),
		}}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to confirm transaction: %w", err)
	}
	return requireAffected(res)
}

// CreateOrder inserts the order and returns the id of the row holding the
// idempotency key, which is the earlier row when this is a retry.
func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) (string, error) {
	tracking, err := json.Marshal(o.TrackingInfo)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tracking info: %w", err)
	}

	query, args := r.qb.Insert("orders").
		Columns(
			"order_id", "idempotency_key", "buyer_id", "seller_id", "seller_name",
			"product_id", "quantity", "total_price", "status", "tracking_info",
		).
		Values(
			o.ID, o.IdempotencyKey, o.BuyerID, o.SellerID, o.SellerName,
			nullString(o.ProductID), o.Quantity, o.TotalPrice, string(o.Status), tracking,
		).
		Suffix("ON CONFLICT (idempotency_key) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	query, args = r.qb.Select("order_id").
		From("orders").
		Where(sq.Eq{"idempotency_key": o.IdempotencyKey}).
		MustSql()

	var id string
	if err := r.getContext(ctx, &id, query, args...); err != nil {
		return "", fmt.Errorf("failed to resolve order id: %w", err)
	}
	return id, nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns()...).
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var o Order
	err := r.getContext(ctx, &o, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return OrderToEntity(o)
}

func (r *postgresRepo) ListOrdersByBuyer(ctx context.Context, buyerID string, limit int) ([]entities.Order, error) {
	q := r.qb.Select(orderColumns()...).
		From("orders").
		Where(sq.Eq{"buyer_id": buyerID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args := q.MustSql()

	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		o, err := OrderToEntity(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", row.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *postgresRepo) CreateNotification(ctx context.Context, n entities.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query, args := r.qb.Insert("notifications").
		Columns("notification_id", "user_id", "type", "title", "message", "data").
		Values(n.ID, n.UserID, string(n.Type), n.Title, n.Message, data).
		Suffix("ON CONFLICT (notification_id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func orderColumns() []string {
	return []string{
		"order_id", "idempotency_key", "buyer_id", "seller_id", "seller_name",
		"product_id", "quantity", "total_price", "status", "tracking_info", "created_at",
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entities.ErrTransactionNotFound
	}
	return nil
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
