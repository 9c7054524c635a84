package domain

import "time"

// RepairStatus — статус ремонта. Как и у заказа, переходы свободные.
type RepairStatus string

const (
	RepairReceived     RepairStatus = "received"
	RepairDiagnosing   RepairStatus = "diagnosing"
	RepairWaitingParts RepairStatus = "waiting_parts"
	RepairInProgress   RepairStatus = "in_progress"
	RepairCompleted    RepairStatus = "completed"
	RepairReturned     RepairStatus = "returned"
	RepairCancelled    RepairStatus = "cancelled"
)

// RepairSteps — число шагов на шкале прогресса.
const RepairSteps = 6

// repairProgress — позиция статуса на шкале прогресса (0 — вне шкалы).
var repairProgress = map[RepairStatus]int{
	RepairReceived:     1,
	RepairDiagnosing:   2,
	RepairWaitingParts: 3,
	RepairInProgress:   4,
	RepairCompleted:    5,
	RepairReturned:     6,
	RepairCancelled:    0,
}

// Valid — статус входит в перечисление.
func (s RepairStatus) Valid() bool {
	_, ok := repairProgress[s]
	return ok
}

// Progress — шаг шкалы и процент заполнения для статуса.
func (s RepairStatus) Progress() RepairProgress {
	step := repairProgress[s]
	return RepairProgress{
		Step:    step,
		Steps:   RepairSteps,
		Percent: step * 100 / RepairSteps,
		Final:   s == RepairCompleted || s == RepairReturned || s == RepairCancelled,
	}
}

// RepairProgress — представление статуса ремонта для трекера.
type RepairProgress struct {
	Step    int  `json:"step"`
	Steps   int  `json:"steps"`
	Percent int  `json:"percent"`
	Final   bool `json:"final"`
}

// RepairRequest — заявка на ремонт устройства.
type RepairRequest struct {
	ID               string       `json:"id"`
	RepairID         string       `json:"repair_id"`
	CustomerID       string       `json:"customer_id"`
	DeviceBrand      string       `json:"device_brand"`
	DeviceModel      string       `json:"device_model"`
	DeviceType       string       `json:"device_type"`
	Issue            string       `json:"issue"`
	ServiceType      string       `json:"service_type"`
	Status           RepairStatus `json:"status"`
	Technician       *string      `json:"technician,omitempty"`
	EstimatedCost    *float64     `json:"estimated_cost,omitempty"`
	FinalCost        *float64     `json:"final_cost,omitempty"`
	Notes            *string      `json:"notes,omitempty"`
	NotifiedCustomer bool         `json:"notified_customer"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
}

// Clone — копия без общих указателей.
func (r RepairRequest) Clone() RepairRequest {
	r.Technician = cloneString(r.Technician)
	r.Notes = cloneString(r.Notes)
	r.EstimatedCost = cloneFloat(r.EstimatedCost)
	r.FinalCost = cloneFloat(r.FinalCost)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	return r
}

// RepairIntake — данные приёмки устройства в ремонт.
type RepairIntake struct {
	Customer    CustomerInput `json:"customer"`
	DeviceBrand string        `json:"device_brand"`
	DeviceModel string        `json:"device_model"`
	DeviceType  string        `json:"device_type"`
	Issue       string        `json:"issue"`
	ServiceType string        `json:"service_type"`
}

// RepairUpdate — частичное обновление заявки; nil-поля не меняются.
type RepairUpdate struct {
	Technician       *string  `json:"technician,omitempty"`
	EstimatedCost    *float64 `json:"estimated_cost,omitempty"`
	FinalCost        *float64 `json:"final_cost,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	NotifiedCustomer *bool    `json:"notified_customer,omitempty"`
	DeviceBrand      *string  `json:"device_brand,omitempty"`
	DeviceModel      *string  `json:"device_model,omitempty"`
	Issue            *string  `json:"issue,omitempty"`
	ServiceType      *string  `json:"service_type,omitempty"`
}

// RepairTracking — ответ трекера ремонта.
type RepairTracking struct {
	Request  RepairRequest  `json:"request"`
	Progress RepairProgress `json:"progress"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
