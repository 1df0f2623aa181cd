package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) departments(c *gin.Context) {
	items, err := h.svc.Ubigeo.Departments(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) provinces(c *gin.Context) {
	items, err := h.svc.Ubigeo.Provinces(c.Request.Context(), c.Param("departmentId"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) districts(c *gin.Context) {
	items, err := h.svc.Ubigeo.Districts(c.Request.Context(), c.Param("provinceId"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) positions(c *gin.Context) {
	items, err := h.svc.Catalogs.Positions(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *Handler) banks(c *gin.Context) {
	items, err := h.svc.Catalogs.Banks(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *Handler) pensionSystems(c *gin.Context) {
	items, err := h.svc.Catalogs.PensionSystems(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
