package dto

// PageResponse metadatos de página en respuestas paginadas (page es 0-based).
type PageResponse struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WindowRequest ventana de fechas para agregaciones. Si From/To vienen vacíos se usan
// los últimos Days días (Days <= 0 = valor por defecto). Fechas en formato YYYY-MM-DD.
type WindowRequest struct {
	Days int    `query:"days"`
	From string `query:"from"`
	To   string `query:"to"`
}
