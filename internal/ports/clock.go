package ports

import "time"

// Clock — источник текущего времени (подменяется в тестах).
type Clock interface {
	Now() time.Time
}
