package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

const (
	workersPath = "/workers"
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *Handler) listWorkers(c *gin.Context) {
	page, err := h.svc.Workers.ListWorkers(c.Request.Context(), listQuery(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	respondList(c, view.Map(page, h.presenter.Worker))
}

// exportWorkers serves the active roster as an xlsx workbook. The workbook
// is built before the first byte is written so a failure still gets a
// proper error response.
func (h *Handler) exportWorkers(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Workers.ExportWorkers(c.Request.Context(), &buf); err != nil {
		h.abort(c, err)
		return
	}
	filename := fmt.Sprintf("trabajadores_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxType, buf.Bytes())
}

func (h *Handler) showWorker(c *gin.Context) {
	id, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	worker, err := h.svc.Workers.GetWorker(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.Worker(worker)})
}

func (h *Handler) createWorker(c *gin.Context) {
	f := newForm(c)
	input := workerForm(f)
	photo := f.upload("photo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Workers.CreateWorker(c.Request.Context(), input, photo); err != nil {
		h.fail(c, err, workersPath, "Error al registrar el trabajador.")
		return
	}
	redirect(c, workersPath, Flash{Message: "Trabajador registrado correctamente.", Type: FlashSuccess})
}

func (h *Handler) updateWorker(c *gin.Context) {
	id, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	f := newForm(c)
	input := workerForm(f)
	photo := f.upload("photo", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	if _, err := h.svc.Workers.UpdateWorker(c.Request.Context(), id, input, photo); err != nil {
		h.fail(c, err, workersPath, "Error al actualizar el trabajador.")
		return
	}
	redirect(c, workersPath, Flash{Message: "Información actualizada con éxito.", Type: FlashSuccess})
}

func (h *Handler) deleteWorker(c *gin.Context) {
	id, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	if err := h.svc.Workers.DeleteWorker(c.Request.Context(), id); err != nil {
		h.fail(c, err, workersPath, "No se pudo eliminar el trabajador.")
		return
	}
	redirect(c, workersPath, Flash{Message: "Trabajador enviado a la papelera.", Type: FlashWarning})
}
