package dto

// PageResponse metadatos de página en respuestas de listados.
type PageResponse struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Total int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NormalizePage aplica los valores por defecto de paginación de la API
// (skip >= 0, 1 <= limit <= 100, default 100 como el dashboard espera).
func NormalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}
	return skip, limit
}
