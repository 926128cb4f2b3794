package request

import (
	"net/http"
	"strconv"

	"github.com/edvin/mongoadmin/internal/core"
)

// Pagination holds parsed page parameters.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit from the query string. Values that
// are missing or not integers fall back to the defaults; the service
// clamps the rest.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Page: core.DefaultPage, Limit: core.DefaultLimit}
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = v
	}
	p.Page, p.Limit = core.NormalizePage(p.Page, p.Limit)
	return p
}
