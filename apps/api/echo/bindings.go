package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/marks/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=name,-cgpa` from the query string.
func (ord *Ordering) Bind(ctx echo.Context) {
	if val := ctx.QueryParam(orderingParam); val != "" {
		ord.Orderings = core.ParseOrdering(val)
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}
