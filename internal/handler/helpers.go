package handler

import (
	"net/http"
	"strconv"

	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// パスの:idをint64で取り出す
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// page/page_sizeクエリ。不正値は無視して既定に落とす。
func pageParams(c echo.Context) (page, limit int) {
	page = 1
	if v := c.QueryParam("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page = p
		}
	}
	limit = 0
	if v := c.QueryParam("page_size"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	return page, limit
}

// 一覧レスポンスの封筒。next/previousはpageを差し替えたURL。
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func paginated(c echo.Context, count int64, page, limit int, results interface{}) error {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}

	resp := PaginatedResponse{Count: count, Results: results}
	if int64(page)*int64(limit) < count {
		resp.Next = pageURL(c, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(c, page-1)
	}
	return c.JSON(http.StatusOK, resp)
}

func pageURL(c echo.Context, page int) *string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// int64クエリパラメータ（省略可）
func optInt64Query(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	x, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &x, nil
}
