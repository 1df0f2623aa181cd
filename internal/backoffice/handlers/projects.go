package handlers

import (
	"fmt"
	"net/http"

	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

const projectsPath = "/projects"

func (h *Handler) listProjects(c *gin.Context) {
	page, err := h.svc.Projects.ListProjects(c.Request.Context(), listQuery(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	respondList(c, view.Map(page, h.presenter.Project))
}

func (h *Handler) projectOptions(c *gin.Context) {
	items, err := h.svc.Projects.ProjectOptions(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": presentOptions(items)})
}

func (h *Handler) showProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	project, err := h.svc.Projects.GetProject(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.Project(project)})
}

func (h *Handler) createProject(c *gin.Context) {
	f := newForm(c)
	input := projectForm(f)
	cover := f.upload("cover_image", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	project, err := h.svc.Projects.CreateProject(c.Request.Context(), input, cover)
	if err != nil {
		h.fail(c, err, projectsPath, "Error al crear el proyecto.")
		return
	}
	redirect(c, projectsPath, Flash{Message: fmt.Sprintf("Proyecto %s creado.", project.ProjectCode), Type: FlashSuccess})
}

func (h *Handler) updateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := projectForm(f)
	cover := f.upload("cover_image", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Projects.UpdateProject(c.Request.Context(), id, input, cover); err != nil {
		h.fail(c, err, projectsPath, "Error al actualizar el proyecto.")
		return
	}
	redirect(c, projectsPath, Flash{Message: "Proyecto actualizado correctamente.", Type: FlashSuccess})
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Projects.DeleteProject(c.Request.Context(), id); err != nil {
		h.fail(c, err, projectsPath, "No se pudo eliminar el proyecto.")
		return
	}
	redirect(c, projectsPath, Flash{Message: "Proyecto eliminado.", Type: FlashSuccess})
}
