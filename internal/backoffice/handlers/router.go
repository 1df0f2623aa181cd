package handlers

import (
	"net/http"

	"github.com/gartstein/backoffice/internal/backoffice/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router builds the gin engine. Reads are public; every mutation requires a
// bearer token signed with jwtSecret.
func (h *Handler) Router(jwtSecret string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(recoverer(h.logger), requestLogger(h.logger))
	r.MaxMultipartMemory = h.maxUpload * 4

	r.GET("/healthz", h.healthz)

	r.GET("/parameters", h.listParameters)
	r.GET("/parameters/roots", h.parameterRoots)
	r.GET("/parameters/parents", h.parameterParents)
	r.GET("/parameters/groups/:group", h.parametersByGroup)
	r.GET("/parameters/:id", h.showParameter)

	r.GET("/companies", h.listCompanies)
	r.GET("/companies/options", h.companyOptions)
	r.GET("/companies/:id", h.showCompany)

	r.GET("/consortia", h.listConsortia)
	r.GET("/consortia/options", h.consortiumOptions)
	r.GET("/consortia/:id", h.showConsortium)

	r.GET("/projects", h.listProjects)
	r.GET("/projects/options", h.projectOptions)
	r.GET("/projects/:id", h.showProject)
	r.GET("/projects/:id/attendance", h.listAttendance)
	r.GET("/projects/:id/safety-talks", h.listSafetyTalks)
	r.GET("/safety-talks/:id", h.showSafetyTalk)

	r.GET("/workers", h.listWorkers)
	r.GET("/workers/export", h.exportWorkers)
	r.GET("/workers/:uuid", h.showWorker)

	r.GET("/ubigeo/departments", h.departments)
	r.GET("/ubigeo/provinces/:departmentId", h.provinces)
	r.GET("/ubigeo/districts/:provinceId", h.districts)

	r.GET("/catalogs/positions", h.positions)
	r.GET("/catalogs/banks", h.banks)
	r.GET("/catalogs/pension-systems", h.pensionSystems)

	w := r.Group("/", auth.Middleware(jwtSecret, h.logger))

	w.POST("/parameters", h.createParameter)
	w.PUT("/parameters/:id", h.updateParameter)
	w.DELETE("/parameters/:id", h.deleteParameter)
	w.POST("/parameters/:id", methodOverride(map[string]gin.HandlerFunc{
		http.MethodPut:    h.updateParameter,
		http.MethodDelete: h.deleteParameter,
	}))

	w.POST("/companies", h.createCompany)
	w.PUT("/companies/:id", h.updateCompany)
	w.DELETE("/companies/:id", h.deleteCompany)
	w.POST("/companies/:id", methodOverride(map[string]gin.HandlerFunc{
		http.MethodPut:    h.updateCompany,
		http.MethodDelete: h.deleteCompany,
	}))

	w.POST("/consortia", h.createConsortium)
	w.PUT("/consortia/:id", h.updateConsortium)
	w.DELETE("/consortia/:id", h.deleteConsortium)
	w.POST("/consortia/:id", methodOverride(map[string]gin.HandlerFunc{
		http.MethodPut:    h.updateConsortium,
		http.MethodDelete: h.deleteConsortium,
	}))

	w.POST("/projects", h.createProject)
	w.PUT("/projects/:id", h.updateProject)
	w.DELETE("/projects/:id", h.deleteProject)
	w.POST("/projects/:id", methodOverride(map[string]gin.HandlerFunc{
		http.MethodPut:    h.updateProject,
		http.MethodDelete: h.deleteProject,
	}))
	w.POST("/projects/:id/attendance", h.recordAttendance)
	w.POST("/projects/:id/safety-talks", h.createSafetyTalk)
	w.POST("/safety-talks/:id/sign", h.signSafetyTalk)

	w.POST("/workers", h.createWorker)
	w.PUT("/workers/:uuid", h.updateWorker)
	w.DELETE("/workers/:uuid", h.deleteWorker)
	w.POST("/workers/:uuid", methodOverride(map[string]gin.HandlerFunc{
		http.MethodPut:    h.updateWorker,
		http.MethodDelete: h.deleteWorker,
	}))

	return r
}

func (h *Handler) healthz(c *gin.Context) {
	if h.svc.Ping != nil {
		if err := h.svc.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
