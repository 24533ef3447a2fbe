package entity

import "time"

// Category agrupa productos para reportes y filtros.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
