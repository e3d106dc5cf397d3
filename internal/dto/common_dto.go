package dto

// CatalogoFilter is bound from the query string of catalog list endpoints.
type CatalogoFilter struct {
	Nombre string `form:"nombre"`
	Area   string `form:"area"`
	Activo string `form:"activo"` // "true" (default) | "false" | "all"
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// RangoFilter is bound from list endpoints filtered by date range.
type RangoFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}
