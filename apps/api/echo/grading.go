package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/marks/core/grading"
)

func registerGradingAPI(g *echo.Group) {
	g.GET("/grading", gradingPolicy)
}

type GradingResponse struct {
	Scale    []grading.Grade   `json:"scale"`
	Subjects []grading.Subject `json:"subjects"`
}

func gradingPolicy(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, GradingResponse{Scale: grading.Scale(), Subjects: grading.Subjects()})
}
