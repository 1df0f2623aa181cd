package handlers

import (
	"fmt"
	"net/http"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

const consortiaPath = "/consortia"

func (h *Handler) listConsortia(c *gin.Context) {
	page, err := h.svc.Consortia.ListConsortia(c.Request.Context(), listQuery(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	respondList(c, view.Map(page, h.presenter.Consortium))
}

func (h *Handler) consortiumOptions(c *gin.Context) {
	items, err := h.svc.Consortia.AllConsortia(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": presentOptions(items)})
}

func (h *Handler) showConsortium(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	consortium, err := h.svc.Consortia.GetConsortium(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.Consortium(consortium)})
}

func (h *Handler) createConsortium(c *gin.Context) {
	f := newForm(c)
	input := consortiumForm(f)
	members, _ := membersForm(f)
	logo := f.upload("url_logo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	consortium, err := h.svc.Consortia.CreateConsortium(c.Request.Context(), input, members, logo)
	if err != nil {
		h.fail(c, err, consortiaPath, "Error al crear consorcio.")
		return
	}
	redirect(c, consortiaPath, Flash{Message: fmt.Sprintf("Consorcio %s creado.", consortium.Name), Type: FlashSuccess})
}

func (h *Handler) updateConsortium(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := consortiumForm(f)
	var members *[]models.MemberInput
	if list, supplied := membersForm(f); supplied {
		members = &list
	}
	logo := f.upload("url_logo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Consortia.UpdateConsortium(c.Request.Context(), id, input, members, logo); err != nil {
		h.fail(c, err, consortiaPath, "Error al actualizar el consorcio.")
		return
	}
	redirect(c, consortiaPath, Flash{Message: "Consorcio actualizado correctamente.", Type: FlashSuccess})
}

func (h *Handler) deleteConsortium(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Consortia.DeleteConsortium(c.Request.Context(), id); err != nil {
		h.fail(c, err, consortiaPath, "No se pudo eliminar el consorcio.")
		return
	}
	redirect(c, consortiaPath, Flash{Message: "Consorcio eliminado.", Type: FlashSuccess})
}
