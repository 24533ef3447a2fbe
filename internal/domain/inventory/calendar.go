package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// DayLayout formato de fecha de calendario en filtros y respuestas.
const DayLayout = "2006-01-02"

// StartOfDay 00:00:00 del día de t en loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay último instante representable del día de t en loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDay interpreta s (YYYY-MM-DD) en loc. Cadena vacía devuelve nil.
func ParseDay(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (se espera YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return &d, nil
}

// Window rango de días calendario [From, To], ambos inclusivos.
// From es el inicio del primer día y To el final del último.
type Window struct {
	From time.Time
	To   time.Time
	loc  *time.Location
}

// NewWindow construye la ventana entre los días de from y to. Falla si from > to.
func NewWindow(from, to time.Time, loc *time.Location) (Window, error) {
	w := Window{From: StartOfDay(from, loc), To: EndOfDay(to, loc), loc: loc}
	if w.From.After(w.To) {
		return Window{}, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return w, nil
}

// LastDays ventana de los últimos days días terminando en el día de now (inclusive).
func LastDays(days int, now time.Time, loc *time.Location) Window {
	if days < 1 {
		days = 1
	}
	w, _ := NewWindow(now.AddDate(0, 0, -(days-1)), now, loc)
	return w
}

// Days días calendario de la ventana, cada uno a las 00:00.
func (w Window) Days() []time.Time {
	var out []time.Time
	for d := w.From; !d.After(w.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// DayCount cantidad de días calendario incluidos, sin recorrer la ventana.
func (w Window) DayCount() int {
	if w.From.IsZero() && w.To.IsZero() {
		return 0
	}
	return DaysBetween(w.From, w.To) + 1
}

// DaysBetween días calendario de a a b (fechas civiles, inmune a cambios de horario).
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Contains indica si t cae dentro de la ventana.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// DayKey clave YYYY-MM-DD de t en la zona de la ventana.
func (w Window) DayKey(t time.Time) string {
	return t.In(w.loc).Format(DayLayout)
}
