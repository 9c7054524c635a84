package domain

import (
	"strconv"
	"strings"
)

// Slot — слот конфигуратора ПК.
type Slot string

const (
	SlotCPU         Slot = "cpu"
	SlotGPU         Slot = "gpu"
	SlotRAM         Slot = "ram"
	SlotMotherboard Slot = "motherboard"
	SlotStorage     Slot = "storage"
	SlotPSU         Slot = "psu"
	SlotCase        Slot = "case"
	SlotCooler      Slot = "cooler"
)

// Slots — все слоты в порядке отображения.
var Slots = []Slot{SlotCPU, SlotGPU, SlotRAM, SlotMotherboard, SlotStorage, SlotPSU, SlotCase, SlotCooler}

// Valid — слот известен.
func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// PCComponent — снимок комплектующего в сборке.
type PCComponent struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Socket     string  `json:"socket,omitempty"`
	MemoryType string  `json:"memory_type,omitempty"`
	FormFactor string  `json:"form_factor,omitempty"`
	TDP        int     `json:"tdp,omitempty"`
	PSUWatts   int     `json:"psu_watts,omitempty"`
	Score      int     `json:"score,omitempty"`
}

// PCBuild — текущая сборка; пустой слот — nil.
type PCBuild struct {
	CPU         *PCComponent `json:"cpu,omitempty"`
	GPU         *PCComponent `json:"gpu,omitempty"`
	RAM         *PCComponent `json:"ram,omitempty"`
	Motherboard *PCComponent `json:"motherboard,omitempty"`
	Storage     *PCComponent `json:"storage,omitempty"`
	PSU         *PCComponent `json:"psu,omitempty"`
	Case        *PCComponent `json:"case,omitempty"`
	Cooler      *PCComponent `json:"cooler,omitempty"`
}

func (b *PCBuild) ref(slot Slot) **PCComponent {
	switch slot {
	case SlotCPU:
		return &b.CPU
	case SlotGPU:
		return &b.GPU
	case SlotRAM:
		return &b.RAM
	case SlotMotherboard:
		return &b.Motherboard
	case SlotStorage:
		return &b.Storage
	case SlotPSU:
		return &b.PSU
	case SlotCase:
		return &b.Case
	case SlotCooler:
		return &b.Cooler
	}
	return nil
}

// Get — компонент в слоте (nil, если пусто или слот неизвестен).
func (b *PCBuild) Get(slot Slot) *PCComponent {
	if r := b.ref(slot); r != nil {
		return *r
	}
	return nil
}

// Set — положить копию компонента в слот; для неизвестного слота возвращает false.
func (b *PCBuild) Set(slot Slot, c *PCComponent) bool {
	r := b.ref(slot)
	if r == nil {
		return false
	}
	if c == nil {
		*r = nil
		return true
	}
	cp := *c
	*r = &cp
	return true
}

// Empty — ни один слот не заполнен.
func (b *PCBuild) Empty() bool {
	for _, s := range Slots {
		if b.Get(s) != nil {
			return false
		}
	}
	return true
}

// ComponentFromProduct — строит снимок компонента из товара, разбирая строки specs
// вида «Ключ: значение» (socket, memory type, form factor, tdp, wattage, score).
func ComponentFromProduct(p *Product) PCComponent {
	c := PCComponent{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
	}
	for _, line := range p.Specs {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "socket":
			c.Socket = strings.ToUpper(value)
		case "memory", "memory type", "ram type":
			c.MemoryType = strings.ToUpper(value)
		case "form factor", "form-factor":
			c.FormFactor = normalizeFormFactor(value)
		case "tdp", "power", "power draw":
			c.TDP = leadingInt(value)
		case "wattage", "psu wattage", "output":
			c.PSUWatts = leadingInt(value)
		case "score", "performance", "performance score":
			c.Score = leadingInt(value)
		}
	}
	return c
}

func normalizeFormFactor(v string) string {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(v, "-", ""), " ", "")) {
	case "atx", "eatx", "fulltower", "midtower":
		return "ATX"
	case "matx", "microatx", "µatx":
		return "mATX"
	case "itx", "miniitx":
		return "ITX"
	}
	return v
}

// leadingInt — число в начале строки («650W» → 650); 0, если числа нет.
func leadingInt(v string) int {
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}
