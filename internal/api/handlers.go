package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

type sessionResponse struct {
	SessionID       string                     `json:"sessionId"`
	CreatedAt       time.Time                  `json:"createdAt"`
	Context         models.ConversationContext `json:"context"`
	Messages        []models.Message           `json:"messages"`
	SampleQuestions []string                   `json:"sampleQuestions"`
}

type reportResponse struct {
	Report   *models.LeadershipReport `json:"report"`
	FileName string                   `json:"fileName"`
}

type summaryResponse struct {
	*insights.Analysis
	Forecast *models.PipelineForecast `json:"forecast"`
	Quality  *models.DataQuality      `json:"quality"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": s.version})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	failures := gin.H{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "failures": failures})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) createSession(c *gin.Context) {
	sess := s.store.Create()
	c.JSON(http.StatusCreated, sessionResponse{
		SessionID:       sess.ID,
		CreatedAt:       sess.CreatedAt,
		Context:         sess.Context(),
		Messages:        sess.Messages(),
		SampleQuestions: insights.SampleQuestions,
	})
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		SessionID:       sess.ID,
		CreatedAt:       sess.CreatedAt,
		Context:         sess.Context(),
		Messages:        sess.Messages(),
		SampleQuestions: insights.SampleQuestions,
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	if _, err := s.store.Get(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	s.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) postMessage(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(c, errors.NewInvalidInputError("message is required"))
		return
	}

	c.JSON(http.StatusOK, sess.HandleMessage(c.Request.Context(), req.Message))
}

func (s *Server) refresh(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := sess.Refresh(c.Request.Context()); err != nil {
		s.log.Warn("board refresh failed", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (s *Server) createReport(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	report, err := sess.GenerateReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reportResponse{
		Report:   report,
		FileName: insights.ReportFileName(report.Metadata.Timestamp),
	})
}

func (s *Server) listReports(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	history := sess.Reports()
	c.JSON(http.StatusOK, gin.H{
		"total":   history.Len(),
		"reports": history.Recent(),
	})
}

// getReport returns the report as JSON, or as a markdown download when
// ?format=markdown.
func (s *Server) getReport(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	report, ok := sess.Reports().Get(c.Param("reportId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "REPORT_NOT_FOUND", "message": "Report not found"}})
		return
	}

	fileName := insights.ReportFileName(report.Metadata.Timestamp)
	if c.Query("format") == "markdown" {
		c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Document))
		return
	}
	c.JSON(http.StatusOK, reportResponse{Report: report, FileName: fileName})
}

func (s *Server) summary(c *gin.Context) {
	b := s.boards.Load(c.Request.Context())
	work, deals := b.Tables()
	c.JSON(http.StatusOK, summaryResponse{
		Analysis: insights.Analyze(work, deals),
		Forecast: insights.ComputePipelineForecast(deals),
		Quality:  insights.AssessDataQuality(b.WorkOrders, b.Deals),
	})
}

func writeError(c *gin.Context, err error) {
	stdErr, ok := errors.AsStandardError(err)
	if !ok {
		stdErr = errors.NewInternalError(err)
	}
	c.JSON(httpStatus(stdErr.Code), gin.H{"error": gin.H{
		"code":    stdErr.Code,
		"message": stdErr.Message,
		"details": stdErr.Details,
	}})
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeReportNoData:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeBoardFetchFailed, errors.ErrCodeBoardFetchTimeout, errors.ErrCodeBoardCacheFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
