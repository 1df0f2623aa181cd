package handlers

import (
	"net/http"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/gin-gonic/gin"
)

func (h *Handler) recordAttendance(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := attendanceForm(f)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	record, err := h.svc.Attendance.RecordAttendance(c.Request.Context(), projectID, input)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": h.presenter.Attendance(record)})
}

// listAttendance returns the records between the from and to query dates,
// both defaulting to today.
func (h *Handler) listAttendance(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	today := time.Now().UTC().Format(dateLayout)
	from, errFrom := time.Parse(dateLayout, c.DefaultQuery("from", today))
	to, errTo := time.Parse(dateLayout, c.DefaultQuery("to", today))
	if errFrom != nil || errTo != nil {
		f := newForm(c)
		if errFrom != nil {
			f.errs.Add("from", "must be a date in YYYY-MM-DD format")
		}
		if errTo != nil {
			f.errs.Add("to", "must be a date in YYYY-MM-DD format")
		}
		invalid(c, f.err())
		return
	}
	records, err := h.svc.Attendance.ListAttendance(c.Request.Context(), projectID, from, to)
	if err != nil {
		h.abort(c, err)
		return
	}
	out := make([]view.Attendance, 0, len(records))
	for i := range records {
		out = append(out, h.presenter.Attendance(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) presentTalks(items []models.SafetyTalk) []view.SafetyTalk {
	out := make([]view.SafetyTalk, 0, len(items))
	for i := range items {
		out = append(out, h.presenter.SafetyTalk(&items[i]))
	}
	return out
}

func (h *Handler) createSafetyTalk(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	input := safetyTalkForm(f)
	evidence := f.upload("evidence", h.maxUpload)
	if err := f.err(); err != nil {
		invalid(c, err)
		return
	}
	talk, err := h.svc.SafetyTalks.CreateSafetyTalk(c.Request.Context(), projectID, input, evidence)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": h.presenter.SafetyTalk(talk)})
}

func (h *Handler) listSafetyTalks(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	talks, err := h.svc.SafetyTalks.ListSafetyTalks(c.Request.Context(), projectID)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presentTalks(talks)})
}

func (h *Handler) showSafetyTalk(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	talk, err := h.svc.SafetyTalks.GetSafetyTalk(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.presenter.SafetyTalk(talk)})
}

func (h *Handler) signSafetyTalk(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f := newForm(c)
	workerID := f.str("worker_uuid")
	parsed, err := parseWorkerUUID(workerID)
	if err != nil {
		invalid(c, err)
		return
	}
	if err := h.svc.SafetyTalks.SignAttendance(c.Request.Context(), id, parsed); err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asistencia firmada."})
}
