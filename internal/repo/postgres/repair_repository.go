package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.RepairRepository = (*RepairRepository)(nil)

type RepairRepository struct {
	pool *pgxpool.Pool
}

func NewRepairRepository(pool *pgxpool.Pool) *RepairRepository {
	return &RepairRepository{pool: pool}
}

const repairColumns = `
	id, repair_id, customer_id, device_brand, device_model, device_type, issue, service_type,
	status, technician, estimated_cost::float8, final_cost::float8, notes, notified_customer,
	created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepair(row rowScanner, r *domain.RepairRequest) error {
	var status string
	if err := row.Scan(
		&r.ID, &r.RepairID, &r.CustomerID, &r.DeviceBrand, &r.DeviceModel, &r.DeviceType, &r.Issue, &r.ServiceType,
		&status, &r.Technician, &r.EstimatedCost, &r.FinalCost, &r.Notes, &r.NotifiedCustomer,
		&r.CreatedAt, &r.UpdatedAt, &r.CompletedAt,
	); err != nil {
		return err
	}
	r.Status = domain.RepairStatus(status)
	return nil
}

func (r *RepairRepository) ListRepairRequests(ctx context.Context) ([]domain.RepairRequest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+repairColumns+` FROM repair_requests ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select repair requests: %w", err)
	}
	defer rows.Close()

	var out []domain.RepairRequest
	for rows.Next() {
		var req domain.RepairRequest
		if err := scanRepair(rows, &req); err != nil {
			return nil, fmt.Errorf("scan repair request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repair rows: %w", err)
	}
	return out, nil
}

func (r *RepairRepository) CreateRepairRequest(ctx context.Context, req *domain.RepairRequest) (*domain.RepairRequest, error) {
	var out domain.RepairRequest
	row := r.pool.QueryRow(ctx, `
		INSERT INTO repair_requests (
			repair_id, customer_id, device_brand, device_model, device_type, issue, service_type,
			status, technician, estimated_cost, final_cost, notes, notified_customer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+repairColumns,
		req.RepairID, req.CustomerID, req.DeviceBrand, req.DeviceModel, req.DeviceType, req.Issue, req.ServiceType,
		string(req.Status), req.Technician, req.EstimatedCost, req.FinalCost, req.Notes, req.NotifiedCustomer,
	)
	if err := scanRepair(row, &out); err != nil {
		return nil, mapError("insert repair request", err)
	}
	return &out, nil
}

// UpdateRepairStatus — completed_at ставится при первом переходе в completed/returned.
func (r *RepairRepository) UpdateRepairStatus(ctx context.Context, id string, status domain.RepairStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE repair_requests SET
			status = $2,
			completed_at = CASE
				WHEN $2 IN ('completed', 'returned') THEN COALESCE(completed_at, now())
				ELSE completed_at
			END,
			updated_at = now()
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return mapError("update repair status", err)
	}
	return expectOne(tag, "repair request", id)
}

// UpdateRepairRequest — частичное обновление: NULL-параметр оставляет колонку как есть.
func (r *RepairRepository) UpdateRepairRequest(ctx context.Context, id string, upd *domain.RepairUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE repair_requests SET
			technician        = COALESCE($2, technician),
			estimated_cost    = COALESCE($3, estimated_cost),
			final_cost        = COALESCE($4, final_cost),
			notes             = COALESCE($5, notes),
			notified_customer = COALESCE($6, notified_customer),
			device_brand      = COALESCE($7, device_brand),
			device_model      = COALESCE($8, device_model),
			issue             = COALESCE($9, issue),
			service_type      = COALESCE($10, service_type),
			updated_at        = now()
		WHERE id = $1
	`, id, upd.Technician, upd.EstimatedCost, upd.FinalCost, upd.Notes, upd.NotifiedCustomer,
		upd.DeviceBrand, upd.DeviceModel, upd.Issue, upd.ServiceType)
	if err != nil {
		return mapError("update repair request", err)
	}
	return expectOne(tag, "repair request", id)
}

func (r *RepairRepository) DeleteRepairRequest(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM repair_requests WHERE id = $1`, id)
	if err != nil {
		return mapError("delete repair request", err)
	}
	return expectOne(tag, "repair request", id)
}
