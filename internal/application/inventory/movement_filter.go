package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Valores por defecto de paginación.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MovementQuery filtros secundarios aplicados en memoria sobre el conjunto candidato.
type MovementQuery struct {
	Type      entity.MovementType // vacío = todos
	Search    string              // subcadena, sin distinguir mayúsculas, en motivo o nombre de producto
	SortField string
	SortDesc  bool
	Page      int // 0-based
	Size      int
}

type movementLess func(a, b *entity.InventoryMovement) int

var sortFields = map[string]movementLess{
	"id": func(a, b *entity.InventoryMovement) int { return strings.Compare(a.ID, b.ID) },
	"quantity": func(a, b *entity.InventoryMovement) int {
		return a.Quantity.Cmp(b.Quantity)
	},
	"movement_date": func(a, b *entity.InventoryMovement) int {
		return a.MovementDate.Compare(b.MovementDate)
	},
	"reason": func(a, b *entity.InventoryMovement) int {
		return strings.Compare(strings.ToLower(a.Reason), strings.ToLower(b.Reason))
	},
	"movement_type": func(a, b *entity.InventoryMovement) int {
		return strings.Compare(string(a.Type), string(b.Type))
	},
	"product_name": func(a, b *entity.InventoryMovement) int {
		return strings.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
	},
}

// alias camelCase aceptados en el parámetro sort
var sortAliases = map[string]string{
	"movementdate": "movement_date",
	"date":         "movement_date",
	"movementtype": "movement_type",
	"type":         "movement_type",
	"productname":  "product_name",
}

// ParseSort interpreta "campo,dir" (dir = asc|desc, por defecto asc). Vacío = movement_date desc.
func ParseSort(s string) (field string, desc bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "movement_date", true, nil
	}
	parts := strings.SplitN(s, ",", 2)
	field = strings.ToLower(strings.TrimSpace(parts[0]))
	if alias, ok := sortAliases[field]; ok {
		field = alias
	}
	if _, ok := sortFields[field]; !ok {
		return "", false, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, parts[0])
	}
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "desc":
			desc = true
		case "asc", "":
		default:
			return "", false, fmt.Errorf("%w: dirección de orden %q", domain.ErrInvalidInput, parts[1])
		}
	}
	return field, desc, nil
}

// ApplyMovementQuery aplica, en orden: filtro por tipo, búsqueda de texto, orden y corte de página.
// total es el tamaño del conjunto filtrado, independiente de la página pedida.
// Páginas fuera de rango devuelven una lista vacía.
func ApplyMovementQuery(items []*entity.InventoryMovement, q MovementQuery) (page []*entity.InventoryMovement, total, totalPages int) {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]*entity.InventoryMovement, 0, len(items))
	for _, m := range items {
		if q.Type != "" && m.Type != q.Type {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Reason), needle) &&
			!strings.Contains(strings.ToLower(m.ProductName), needle) {
			continue
		}
		filtered = append(filtered, m)
	}

	cmp, ok := sortFields[q.SortField]
	if !ok {
		cmp = sortFields["movement_date"]
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		c := cmp(filtered[i], filtered[j])
		if q.SortDesc {
			return c > 0
		}
		return c < 0
	})

	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	total = len(filtered)
	totalPages = (total + size - 1) / size

	start := q.Page * size
	if q.Page < 0 || start >= total {
		return []*entity.InventoryMovement{}, total, totalPages
	}
	end := start + size
	if end > total {
		end = total
	}
	return filtered[start:end], total, totalPages
}
