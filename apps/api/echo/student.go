package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/report"
	"github.com/trezcool/marks/core/student"
)

var errStdNotFoundInCtx = errors.New("student object not found in echo.Context")

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc *student.Service, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/students")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/export", api.export)

	// detail endpoints
	dg := sg.Group("/:id", studentMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, StudentResponse{Message: "Student added", Student: std})
}

// bindQuery reads the filter and ordering of a listing from the query string.
func bindQuery(ctx echo.Context) (*student.QueryFilter, []core.DBOrdering, error) {
	filter := new(student.QueryFilter)
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, filter); err != nil {
		return nil, nil, errors.Wrap(err, "binding to QueryFilter")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	return filter, ordering.Orderings, nil
}

func (api *studentApi) query(ctx echo.Context) error {
	filter, ordering, err := bindQuery(ctx)
	if err != nil {
		return err
	}

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) export(ctx echo.Context) error {
	format := ctx.QueryParam("format")
	if format == "" {
		format = report.FormatCSV
	}
	if !report.IsFormat(format) {
		return core.NewValidationError(
			errors.Errorf("unsupported report format %q", format),
			core.FieldError{Field: "format", Error: "must be one of " + report.FormatCSV + ", " + report.FormatXLSX},
		)
	}

	filter, ordering, err := bindQuery(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, report.ContentType(format))
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+report.Filename(format)+`"`)
	res.WriteHeader(http.StatusOK)
	return errors.Wrap(report.Write(res, format, students), "writing report")
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}

	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, StudentResponse{Message: "Student updated", Student: std})
}

func (api *studentApi) destroy(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student deleted"})
}

// studentMiddleware loads the student identified by the `:id` path param into the context.
func studentMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			std, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set("object", std)
			return next(ctx)
		}
	}
}

type StudentResponse struct {
	Message string          `json:"message"`
	Student student.Student `json:"student"`
}
