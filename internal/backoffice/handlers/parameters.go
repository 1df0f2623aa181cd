package handlers

import (
	"net/http"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

const parametersPath = "/parameters"

func (h *Handler) presentParameters(items []models.Parameter) []view.Parameter {
	out := make([]view.Parameter, 0, len(items))
	for i := range items {
		out = append(out, h.presenter.Parameter(&items[i]))
	}
	return out
}

func (h *Handler) listParameters(c *gin.Context) {
	page, err := h.svc.Parameters.ListParameters(c.Request.Context(), listQuery(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	respondList(c, view.Map(page, h.presenter.Parameter))
}

func (h *Handler) parametersByGroup(c *gin.Context) {
	activeOnly := c.Query("all") == ""
	items, err := h.svc.Parameters.ListByGroup(c.Request.Context(), c.Param("group"), activeOnly)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presentParameters(items)})
}

func (h *Handler) parameterRoots(c *gin.Context) {
	items, err := h.svc.Parameters.ListRoots(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presentParameters(items)})
}

func (h *Handler) parameterParents(c *gin.Context) {
	items, err := h.svc.Parameters.ParentOptions(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presentParameters(items)})
}

func (h *Handler) showParameter(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Parameters.GetParameter(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.Parameter(p)})
}

func (h *Handler) createParameter(c *gin.Context) {
	f := newForm(c)
	input := parameterForm(f)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Parameters.CreateParameter(c.Request.Context(), input); err != nil {
		h.fail(c, err, parametersPath, "Error al crear el parámetro.")
		return
	}
	redirect(c, parametersPath, Flash{Message: "Parámetro creado correctamente.", Type: FlashSuccess})
}

func (h *Handler) updateParameter(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := parameterForm(f)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Parameters.UpdateParameter(c.Request.Context(), id, input); err != nil {
		h.fail(c, err, parametersPath, "Error al actualizar el parámetro.")
		return
	}
	redirect(c, parametersPath, Flash{Message: "Parámetro actualizado correctamente.", Type: FlashSuccess})
}

func (h *Handler) deleteParameter(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.Parameters.DeleteParameter(c.Request.Context(), id); err != nil {
		h.fail(c, err, parametersPath, "No se pudo eliminar el parámetro.")
		return
	}
	redirect(c, parametersPath, Flash{Message: "Parámetro eliminado.", Type: FlashSuccess})
}
