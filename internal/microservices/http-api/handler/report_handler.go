package handler

import (
	"net/http"

	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/report-reasons", h.Reasons)

	protected.POST("/scenes/:scene_id/report", h.Create)
	protected.GET("/scenes/:scene_id/report", h.Status)
}

// Reasons lists the report reasons
// GET /api/report-reasons
func (h *ReportHandler) Reasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.reportService.Reasons()})
}

// Create files a report. A second report by the same user is a 409.
// POST /api/scenes/:scene_id/report
func (h *ReportHandler) Create(c *gin.Context) {
	sceneID, ok := pathID(c, "scene_id", "scene")
	if !ok {
		return
	}
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateReportDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reportService.Report(c.Request.Context(), userID, username, sceneID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReportStatusResponse{SceneID: sceneID, Reported: true})
}

// Status tells whether the caller has reported the scene
// GET /api/scenes/:scene_id/report
func (h *ReportHandler) Status(c *gin.Context) {
	sceneID, ok := pathID(c, "scene_id", "scene")
	if !ok {
		return
	}
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	reported, err := h.reportService.HasReported(c.Request.Context(), userID, sceneID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReportStatusResponse{SceneID: sceneID, Reported: reported})
}
