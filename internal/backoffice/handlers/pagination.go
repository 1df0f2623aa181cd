package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gin-gonic/gin"
)

// Meta describes the returned page.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// Links point at neighbouring pages, keeping the rest of the query string.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type listResponse[T any] struct {
	Data  []T    `json:"data"`
	Meta  Meta   `json:"meta"`
	Links Links  `json:"links"`
	Flash *Flash `json:"flash,omitempty"`
}

func listQuery(c *gin.Context) models.ListQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("perPage"))
	return models.ListQuery{
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	}.Normalize()
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return out.String()
}

func pageLinks(u *url.URL, current, last int) Links {
	links := Links{First: pageURL(u, 1), Last: pageURL(u, last)}
	if current > 1 {
		prev := pageURL(u, current-1)
		links.Prev = &prev
	}
	if current < last {
		next := pageURL(u, current+1)
		links.Next = &next
	}
	return links
}

// respondList writes a page with its pagination links and the pending
// flash message.
func respondList[T any](c *gin.Context, page models.Page[T]) {
	last := page.LastPage()
	c.JSON(http.StatusOK, listResponse[T]{
		Data:  page.Items,
		Meta:  Meta{Total: page.Total, Page: page.Page, PerPage: page.PerPage, LastPage: last},
		Links: pageLinks(c.Request.URL, page.Page, last),
		Flash: takeFlash(c),
	})
}
