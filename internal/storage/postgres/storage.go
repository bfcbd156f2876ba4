package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/domain/repository"
)

// DBPool is the subset of pgxpool.Pool the storage uses. pgxmock satisfies it
// in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type shipmentRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Shipments() repository.ShipmentRepository {
	return &shipmentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            source_order_id BIGINT UNIQUE NOT NULL,
            order_number TEXT NOT NULL DEFAULT '',
            customer_name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            shipping_address JSONB NOT NULL,
            total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            currency TEXT NOT NULL DEFAULT '',
            order_status TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS shipments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL CHECK (status IN ('pending', 'created', 'failed')),
            courier_shipment_id TEXT,
            waybill TEXT,
            raw_response JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_shipments_open ON shipments(order_id) WHERE status IN ('pending', 'failed')`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_order ON shipments(order_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Upsert(ctx context.Context, order model.Order) (*model.Order, bool, error) {
	address, err := json.Marshal(order.Shipping)
	if err != nil {
		return nil, false, fmt.Errorf("encode shipping address: %w", err)
	}

	const query = `INSERT INTO orders (source_order_id, order_number, customer_name, email, phone, shipping_address, total_price, currency, order_status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   ON CONFLICT (source_order_id) DO NOTHING
                   RETURNING id, created_at`
	stored := order
	err = r.storage.pool.QueryRow(ctx, query,
		order.SourceOrderID, order.OrderNumber, order.CustomerName, order.Email, order.Phone,
		address, order.TotalPrice, order.Currency, order.OrderStatus,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetBySourceID(ctx, order.SourceOrderID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &stored, true, nil
}

func (r *orderRepository) GetBySourceID(ctx context.Context, sourceOrderID int64) (*model.Order, error) {
	const query = `SELECT id, source_order_id, order_number, customer_name, email, phone, shipping_address, total_price, currency, order_status, created_at
                   FROM orders WHERE source_order_id=$1`
	return r.scanOrder(r.storage.pool.QueryRow(ctx, query, sourceOrderID))
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT id, source_order_id, order_number, customer_name, email, phone, shipping_address, total_price, currency, order_status, created_at
                   FROM orders WHERE id=$1`
	return r.scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
}

func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o       model.Order
		address []byte
	)
	err := row.Scan(&o.ID, &o.SourceOrderID, &o.OrderNumber, &o.CustomerName, &o.Email, &o.Phone, &address, &o.TotalPrice, &o.Currency, &o.OrderStatus, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(address, &o.Shipping); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	return &o, nil
}

// --- ShipmentRepository implementation ---

const shipmentColumns = `id, order_id, status, courier_shipment_id, waybill, raw_response, created_at, updated_at`

func (r *shipmentRepository) ClaimForSubmission(ctx context.Context, orderID int64) (*model.Shipment, error) {
	var claimed *model.Shipment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT ` + shipmentColumns + `
                             FROM shipments WHERE order_id=$1
                             ORDER BY created_at DESC, id DESC
                             LIMIT 1
                             FOR UPDATE`
		existing, err := scanShipment(tx.QueryRow(ctx, selectQuery, orderID))
		if err == nil {
			claimed = existing
			return nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}

		const insertQuery = `INSERT INTO shipments (order_id, status) VALUES ($1, $2)
                             RETURNING ` + shipmentColumns
		inserted, err := scanShipment(tx.QueryRow(ctx, insertQuery, orderID, model.ShipmentStatusPending))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		claimed = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *shipmentRepository) FindActiveByOrder(ctx context.Context, orderID int64) (*model.Shipment, error) {
	const query = `SELECT ` + shipmentColumns + `
                   FROM shipments WHERE order_id=$1
                   ORDER BY created_at DESC, id DESC
                   LIMIT 1`
	return scanShipment(r.storage.pool.QueryRow(ctx, query, orderID))
}

func (r *shipmentRepository) MarkCreated(ctx context.Context, shipmentID int64, courierShipmentID, waybill string, rawResponse json.RawMessage) error {
	const query = `UPDATE shipments
                   SET status=$1, courier_shipment_id=$2, waybill=$3, raw_response=$4, updated_at=NOW()
                   WHERE id=$5`
	tag, err := r.storage.pool.Exec(ctx, query, model.ShipmentStatusCreated, courierShipmentID, waybill, rawResponse, shipmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *shipmentRepository) MarkFailed(ctx context.Context, shipmentID int64, rawError json.RawMessage) error {
	const query = `UPDATE shipments
                   SET status=$1, raw_response=$2, updated_at=NOW()
                   WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, model.ShipmentStatusFailed, rawError, shipmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *shipmentRepository) SelectRetryBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]repository.RetryCandidate, error) {
	const selectQuery = `SELECT s.id, s.order_id, s.status, s.courier_shipment_id, s.waybill, s.raw_response, s.created_at, s.updated_at,
                                o.id, o.source_order_id, o.order_number, o.customer_name, o.email, o.phone, o.shipping_address, o.total_price, o.currency, o.order_status, o.created_at
                         FROM shipments s
                         JOIN orders o ON o.id = s.order_id
                         WHERE s.status = 'failed'
                            OR (s.status = 'pending' AND s.updated_at < NOW() - make_interval(secs => $2))
                         ORDER BY s.updated_at
                         LIMIT $1
                         FOR UPDATE OF s SKIP LOCKED`

	var candidates []repository.RetryCandidate
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit, staleAfter.Seconds())
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				c       repository.RetryCandidate
				address []byte
			)
			if err := rows.Scan(
				&c.Shipment.ID, &c.Shipment.OrderID, &c.Shipment.Status, &c.Shipment.CourierShipmentID,
				&c.Shipment.WaybillReference, &c.Shipment.RawResponse, &c.Shipment.CreatedAt, &c.Shipment.UpdatedAt,
				&c.Order.ID, &c.Order.SourceOrderID, &c.Order.OrderNumber, &c.Order.CustomerName, &c.Order.Email,
				&c.Order.Phone, &address, &c.Order.TotalPrice, &c.Order.Currency, &c.Order.OrderStatus, &c.Order.CreatedAt,
			); err != nil {
				return err
			}
			if err := json.Unmarshal(address, &c.Order.Shipping); err != nil {
				return fmt.Errorf("decode shipping address: %w", err)
			}
			candidates = append(candidates, c)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		// Claim bump: concurrent sweepers skip these rows for the stale window.
		for _, c := range candidates {
			if _, err := tx.Exec(ctx, `UPDATE shipments SET updated_at=NOW() WHERE id=$1`, c.Shipment.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func scanShipment(row pgx.Row) (*model.Shipment, error) {
	var sh model.Shipment
	err := row.Scan(&sh.ID, &sh.OrderID, &sh.Status, &sh.CourierShipmentID, &sh.WaybillReference, &sh.RawResponse, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &sh, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes the underlying connection pool for advanced use.
func (s *Storage) Pool() DBPool {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
