package builder

import (
	"fmt"
	"math"

	"github.com/Gunvolt24/techstore/internal/domain"
)

const (
	// baseWattage — плата, вентиляторы, накопители без TDP.
	baseWattage = 50
	psuHeadroom = 1.25
	psuStep     = 50
)

// Веса оценки производительности.
const (
	weightCPU         = 0.35
	weightGPU         = 0.40
	weightRAM         = 0.10
	weightStorage     = 0.10
	weightMotherboard = 0.05
)

// requiredSlots — без них сборка не считается полной (видеокарта и кулер необязательны).
var requiredSlots = []domain.Slot{
	domain.SlotCPU, domain.SlotMotherboard, domain.SlotRAM, domain.SlotStorage, domain.SlotPSU, domain.SlotCase,
}

// formFactorRank — чем больше, тем крупнее плата/корпус.
var formFactorRank = map[string]int{"ITX": 1, "mATX": 2, "ATX": 3}

// Issue — найденная несовместимость.
type Issue struct {
	Slots   []domain.Slot `json:"slots"`
	Message string        `json:"message"`
}

// Summary — итог конфигуратора.
type Summary struct {
	TotalPrice       float64       `json:"total_price"`
	EstimatedWattage int           `json:"estimated_wattage"`
	RecommendedPSU   int           `json:"recommended_psu"`
	PerformanceScore int           `json:"performance_score"`
	Issues           []Issue       `json:"issues"`
	Missing          []domain.Slot `json:"missing"`
	Complete         bool          `json:"complete"`
}

// Summarize — цена, потребление, рекомендуемый БП, совместимость и оценка сборки.
func Summarize(b *domain.PCBuild) Summary {
	s := Summary{Issues: []Issue{}, Missing: []domain.Slot{}}

	watts := 0
	filled := false
	for _, slot := range domain.Slots {
		c := b.Get(slot)
		if c == nil {
			continue
		}
		filled = true
		s.TotalPrice += c.Price
		if slot != domain.SlotPSU {
			watts += c.TDP
		}
	}
	s.TotalPrice = domain.RoundMoney(s.TotalPrice)
	if filled {
		watts += baseWattage
		s.EstimatedWattage = watts
		s.RecommendedPSU = roundUp(int(math.Ceil(float64(watts)*psuHeadroom)), psuStep)
	}

	s.Issues = append(s.Issues, compatibility(b, s.EstimatedWattage)...)
	s.PerformanceScore = score(b)

	for _, slot := range requiredSlots {
		if b.Get(slot) == nil {
			s.Missing = append(s.Missing, slot)
		}
	}
	s.Complete = len(s.Missing) == 0
	return s
}

func compatibility(b *domain.PCBuild, watts int) []Issue {
	var issues []Issue
	cpu, mb, ram, cs, psu := b.CPU, b.Motherboard, b.RAM, b.Case, b.PSU

	if cpu != nil && mb != nil && cpu.Socket != "" && mb.Socket != "" && cpu.Socket != mb.Socket {
		issues = append(issues, Issue{
			Slots:   []domain.Slot{domain.SlotCPU, domain.SlotMotherboard},
			Message: fmt.Sprintf("CPU socket %s does not match motherboard socket %s", cpu.Socket, mb.Socket),
		})
	}
	if ram != nil && mb != nil && ram.MemoryType != "" && mb.MemoryType != "" && ram.MemoryType != mb.MemoryType {
		issues = append(issues, Issue{
			Slots:   []domain.Slot{domain.SlotRAM, domain.SlotMotherboard},
			Message: fmt.Sprintf("memory type %s is not supported by the motherboard (%s)", ram.MemoryType, mb.MemoryType),
		})
	}
	if cs != nil && mb != nil {
		caseRank, okCase := formFactorRank[cs.FormFactor]
		mbRank, okMB := formFactorRank[mb.FormFactor]
		if okCase && okMB && mbRank > caseRank {
			issues = append(issues, Issue{
				Slots:   []domain.Slot{domain.SlotCase, domain.SlotMotherboard},
				Message: fmt.Sprintf("%s case cannot fit a %s motherboard", cs.FormFactor, mb.FormFactor),
			})
		}
	}
	if psu != nil && psu.PSUWatts > 0 && psu.PSUWatts < watts {
		issues = append(issues, Issue{
			Slots:   []domain.Slot{domain.SlotPSU},
			Message: fmt.Sprintf("power supply %d W is below the estimated draw of %d W", psu.PSUWatts, watts),
		})
	}
	return issues
}

func score(b *domain.PCBuild) int {
	get := func(c *domain.PCComponent) float64 {
		if c == nil {
			return 0
		}
		return float64(c.Score)
	}
	total := weightCPU*get(b.CPU) +
		weightGPU*get(b.GPU) +
		weightRAM*get(b.RAM) +
		weightStorage*get(b.Storage) +
		weightMotherboard*get(b.Motherboard)
	return int(math.Round(total))
}

func roundUp(v, step int) int {
	if v%step == 0 {
		return v
	}
	return (v/step + 1) * step
}
