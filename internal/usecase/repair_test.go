package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/golang/mock/gomock"
)

var repairCodeRe = regexp.MustCompile(`^RPR-[0-9A-F]{6}$`)

func TestAddRepairRequest_CreatesReceivedWithCode(t *testing.T) {
	f := newFixture(t)
	f.allowPublish()

	var stored *domain.RepairRequest
	gomock.InOrder(
		f.customers.EXPECT().UpsertCustomerByPhone(gomock.Any(), gomock.Any()).Return(&domain.Customer{ID: "cu1"}, nil),
		f.repairs.EXPECT().CreateRepairRequest(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *domain.RepairRequest) (*domain.RepairRequest, error) {
				stored = r
				return r, nil
			}),
	)
	f.expectList(usecase.CollectionRepairRequests, nil)
	f.expectList(usecase.CollectionCustomers, nil)

	got, err := f.svc.AddRepairRequest(context.Background(), &domain.RepairIntake{
		Customer:    validCustomer(),
		DeviceBrand: " Dell ",
		DeviceModel: "XPS 13",
		DeviceType:  "laptop",
		Issue:       "cracked screen",
		ServiceType: "screen replacement",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repairCodeRe.MatchString(got.RepairID) {
		t.Fatalf("bad repair code %q", got.RepairID)
	}
	if stored.Status != domain.RepairReceived || stored.CustomerID != "cu1" || stored.DeviceBrand != "Dell" {
		t.Fatalf("unexpected stored request: %+v", stored)
	}
}

func TestAddRepairRequest_UpsertFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("unique violation")
	f.customers.EXPECT().UpsertCustomerByPhone(gomock.Any(), gomock.Any()).Return(nil, boom)
	f.repairs.EXPECT().CreateRepairRequest(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.svc.AddRepairRequest(context.Background(), &domain.RepairIntake{
		Customer: validCustomer(), DeviceBrand: "a", DeviceModel: "b", DeviceType: "c", Issue: "d", ServiceType: "e",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want upsert error, got %v", err)
	}
}

func TestTrackRepair(t *testing.T) {
	f := newFixture(t)
	f.repairs.EXPECT().ListRepairRequests(gomock.Any()).Return([]domain.RepairRequest{
		{ID: "r1", RepairID: "RPR-ABC123", Status: domain.RepairWaitingParts},
		{ID: "r2", RepairID: "RPR-FFF000", Status: domain.RepairCancelled},
	}, nil)
	ctx := context.Background()

	got, err := f.svc.TrackRepair(ctx, " rpr-abc123 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Request.ID != "r1" || got.Progress.Step != 3 || got.Progress.Percent != 50 || got.Progress.Final {
		t.Fatalf("unexpected tracking: %+v", got)
	}

	cancelled, err := f.svc.TrackRepair(ctx, "RPR-FFF000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Progress.Step != 0 || !cancelled.Progress.Final {
		t.Fatalf("cancelled must be terminal with no bar: %+v", cancelled.Progress)
	}

	if _, err := f.svc.TrackRepair(ctx, "RPR-000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRepairsByPhone(t *testing.T) {
	f := newFixture(t)
	f.customers.EXPECT().ListCustomers(gomock.Any()).Return([]domain.Customer{
		{ID: "cu1", Phone: "+15550102030"},
		{ID: "cu2", Phone: "+15559999999"},
	}, nil)
	f.repairs.EXPECT().ListRepairRequests(gomock.Any()).Return([]domain.RepairRequest{
		{ID: "r1", CustomerID: "cu1"},
		{ID: "r2", CustomerID: "cu2"},
		{ID: "r3", CustomerID: "cu1"},
	}, nil)
	ctx := context.Background()

	got, err := f.svc.RepairsByPhone(ctx, "+1 (555) 010-2030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r3" {
		t.Fatalf("unexpected repairs: %+v", got)
	}

	none, err := f.svc.RepairsByPhone(ctx, "+10000000000")
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown phone must yield empty list, got %v err=%v", none, err)
	}
}

func TestCustomerByPhone_Empty(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CustomerByPhone(context.Background(), " - "); err == nil {
		t.Fatalf("expected error for empty phone")
	}
}

func TestRepairProgress_Table(t *testing.T) {
	tests := []struct {
		status  domain.RepairStatus
		step    int
		percent int
	}{
		{domain.RepairReceived, 1, 16},
		{domain.RepairDiagnosing, 2, 33},
		{domain.RepairWaitingParts, 3, 50},
		{domain.RepairInProgress, 4, 66},
		{domain.RepairCompleted, 5, 83},
		{domain.RepairReturned, 6, 100},
		{domain.RepairCancelled, 0, 0},
	}
	for _, tt := range tests {
		p := tt.status.Progress()
		if p.Step != tt.step || p.Percent != tt.percent || p.Steps != domain.RepairSteps {
			t.Fatalf("%s: got %+v", tt.status, p)
		}
	}
}
