package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
)

const repairCodePrefix = "RPR-"

// AddRepairRequest — приёмка устройства: покупатель ищется (или создаётся) по телефону,
// заявка создаётся в статусе received с новым кодом отслеживания.
func (s *StoreService) AddRepairRequest(ctx context.Context, in *domain.RepairIntake) (*domain.RepairRequest, error) {
	if err := s.validator.ValidateRepairIntake(ctx, in); err != nil {
		s.log.Warnf(ctx, "repair intake validation failed err=%v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.repos.Customers.UpsertCustomerByPhone(ctx, &in.Customer)
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationAddRepairRequest, fmt.Errorf("upsert customer: %w", err))
	}

	created, err := s.repos.Repairs.CreateRepairRequest(ctx, &domain.RepairRequest{
		RepairID:    repairCodePrefix + randomCode(),
		CustomerID:  customer.ID,
		DeviceBrand: strings.TrimSpace(in.DeviceBrand),
		DeviceModel: strings.TrimSpace(in.DeviceModel),
		DeviceType:  strings.TrimSpace(in.DeviceType),
		Issue:       strings.TrimSpace(in.Issue),
		ServiceType: strings.TrimSpace(in.ServiceType),
		Status:      domain.RepairReceived,
	})
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationAddRepairRequest, err)
	}
	s.log.Infof(ctx, "repair request created repair_id=%s customer=%s", created.RepairID, customer.ID)
	return created, s.afterMutation(ctx, MutationAddRepairRequest)
}

// UpdateRepairStatus — любой известный статус из любого (переходы не ограничены).
func (s *StoreService) UpdateRepairStatus(ctx context.Context, id string, status domain.RepairStatus) error {
	if !status.Valid() {
		return invalidInput("unknown repair status %q", status)
	}
	if err := s.repos.Repairs.UpdateRepairStatus(ctx, id, status); err != nil {
		return s.mutationFailed(ctx, MutationUpdateRepairStatus, err)
	}
	s.log.Infof(ctx, "repair status updated id=%s status=%s", id, status)
	return s.afterMutation(ctx, MutationUpdateRepairStatus)
}

func (s *StoreService) UpdateRepairRequest(ctx context.Context, id string, upd *domain.RepairUpdate) error {
	if upd == nil {
		return invalidInput("empty repair update")
	}
	if upd.EstimatedCost != nil && *upd.EstimatedCost < 0 {
		return invalidInput("estimated_cost must be non-negative")
	}
	if upd.FinalCost != nil && *upd.FinalCost < 0 {
		return invalidInput("final_cost must be non-negative")
	}
	if err := s.repos.Repairs.UpdateRepairRequest(ctx, id, upd); err != nil {
		return s.mutationFailed(ctx, MutationUpdateRepairRequest, err)
	}
	return s.afterMutation(ctx, MutationUpdateRepairRequest)
}

func (s *StoreService) DeleteRepairRequest(ctx context.Context, id string) error {
	if err := s.repos.Repairs.DeleteRepairRequest(ctx, id); err != nil {
		return s.mutationFailed(ctx, MutationDeleteRepairRequest, err)
	}
	return s.afterMutation(ctx, MutationDeleteRepairRequest)
}

// TrackRepair — заявка по коду (без учёта регистра) и позиция на шкале прогресса.
func (s *StoreService) TrackRepair(ctx context.Context, code string) (*domain.RepairTracking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalidInput("repair code is required")
	}
	repairs, err := s.ListRepairRequests(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range repairs {
		if strings.EqualFold(r.RepairID, code) {
			return &domain.RepairTracking{Request: r, Progress: r.Status.Progress()}, nil
		}
	}
	return nil, fmt.Errorf("repair %s: %w", code, domain.ErrNotFound)
}

// RepairsByPhone — заявки покупателя; неизвестный телефон — пустой список.
func (s *StoreService) RepairsByPhone(ctx context.Context, phone string) ([]domain.RepairRequest, error) {
	customer, err := s.CustomerByPhone(ctx, phone)
	if err != nil {
		if isNotFound(err) {
			return []domain.RepairRequest{}, nil
		}
		return nil, err
	}
	repairs, err := s.ListRepairRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RepairRequest, 0)
	for _, r := range repairs {
		if r.CustomerID == customer.ID {
			out = append(out, r)
		}
	}
	return out, nil
}

// CustomerByPhone — поиск по нормализованному телефону.
func (s *StoreService) CustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	want := domain.NormalizePhone(phone)
	if want == "" {
		return nil, invalidInput("phone is required")
	}
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if domain.NormalizePhone(customers[i].Phone) == want {
			return &customers[i], nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", want, domain.ErrNotFound)
}
