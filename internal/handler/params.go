package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ログイン必須・管理者必須のミドルウェア列
type Guards struct {
	User  []echo.MiddlewareFunc
	Admin []echo.MiddlewareFunc
}

// bodyを読んでタグで検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed JSON request")
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewValidation(map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// ?page=0&size=10
func pageQuery(c echo.Context) (usecase.PageInput, error) {
	in := usecase.PageInput{Page: 0, Size: usecase.DefaultPageSize}
	fields := map[string]string{}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > usecase.MaxPage {
			fields["page"] = fmt.Sprintf("must be an integer between 0 and %d", usecase.MaxPage)
		}
		in.Page = n
	}
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fields["size"] = "must be a positive integer"
		}
		in.Size = n
	}
	if len(fields) > 0 {
		return usecase.PageInput{}, usecase.NewValidation(fields)
	}
	return in, nil
}

func optionalInt64Query(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, usecase.NewValidation(map[string]string{name: "must be an integer"})
	}
	return &n, nil
}

func principal(c echo.Context) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.Principal{}, usecase.NewUnauthorized("Full authentication is required to access this resource")
	}
	return p, nil
}
