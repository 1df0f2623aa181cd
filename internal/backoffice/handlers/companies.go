package handlers

import (
	"net/http"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

const companiesPath = "/companies"

type option struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func presentOptions(items []models.Option) []option {
	out := make([]option, 0, len(items))
	for _, o := range items {
		out = append(out, option{ID: o.ID, Name: o.Name})
	}
	return out
}

func (h *Handler) listCompanies(c *gin.Context) {
	page, err := h.svc.Companies.ListCompanies(c.Request.Context(), listQuery(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	respondList(c, view.Map(page, h.presenter.Company))
}

func (h *Handler) companyOptions(c *gin.Context) {
	items, err := h.svc.Companies.AllCompanies(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": presentOptions(items)})
}

func (h *Handler) showCompany(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	company, err := h.svc.Companies.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.Company(company)})
}

func (h *Handler) createCompany(c *gin.Context) {
	f := newForm(c)
	input := companyForm(f)
	logo := f.upload("url_logo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Companies.CreateCompany(c.Request.Context(), input, logo); err != nil {
		h.fail(c, err, companiesPath, "Error al registrar empresa")
		return
	}
	redirect(c, companiesPath, Flash{Message: "Empresa registrada con éxito", Type: FlashSuccess})
}

func (h *Handler) updateCompany(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := companyForm(f)
	logo := f.upload("url_logo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Companies.UpdateCompany(c.Request.Context(), id, input, logo); err != nil {
		h.fail(c, err, companiesPath, "Error al actualizar empresa")
		return
	}
	redirect(c, companiesPath, Flash{Message: "Empresa actualizada correctamente", Type: FlashSuccess})
}

func (h *Handler) deleteCompany(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Companies.DeleteCompany(c.Request.Context(), id); err != nil {
		h.fail(c, err, companiesPath, "No se pudo eliminar la empresa")
		return
	}
	redirect(c, companiesPath, Flash{Message: "Empresa eliminada", Type: FlashWarning})
}
