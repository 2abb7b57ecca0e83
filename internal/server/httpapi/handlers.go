package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/server/document"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
	"github.com/dmitrijs2005/ideabank/internal/server/services"
)

const (
	defaultLeaderboardLimit = 10
	defaultTextLimit        = 20
)

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	token, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer"})
}

func (s *HTTPServer) createSubmission(c *gin.Context) {
	var in services.NewSubmission
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	res, err := s.submissions.Submit(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         res.Submission.ID,
		"submission": res.Submission,
		"mirror":     res.Mirror,
	})
}

func (s *HTTPServer) listSubmissions(c *gin.Context) {
	since, err := services.Since(c.Query("period"), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}

	f := models.Filter{
		Category: models.Category(c.Query("category")),
		Status:   models.Status(c.Query("status")),
		Author:   c.Query("author"),
		Since:    since,
		Sort:     models.SortOrder(c.Query("sort")),
	}

	subs, err := s.submissions.List(c.Request.Context(), f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if subs == nil {
		subs = []*models.Submission{}
	}

	c.JSON(http.StatusOK, subs)
}

func (s *HTTPServer) getSubmission(c *gin.Context) {
	sub, err := s.submissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *HTTPServer) updateSubmission(c *gin.Context) {
	var req services.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	sub, err := s.submissions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "submission edited", "id", sub.ID, "by", c.GetString(usernameKey))
	c.JSON(http.StatusOK, sub)
}

func (s *HTTPServer) deleteSubmission(c *gin.Context) {
	if err := s.submissions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "submission removed", "id", c.Param("id"), "by", c.GetString(usernameKey))
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) voteSubmission(c *gin.Context) {
	votes, err := s.submissions.Vote(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

func (s *HTTPServer) downloadDocument(c *gin.Context) {
	name, content, err := s.submissions.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, document.ContentType, content)
}

func (s *HTTPServer) listDocuments(c *gin.Context) {
	docs, err := s.submissions.Documents(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	c.JSON(http.StatusOK, docs)
}

func (s *HTTPServer) mirrorSubmission(c *gin.Context) {
	res, err := s.submissions.Mirror(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) analytics(c *gin.Context) {
	a, err := s.dashboard.Analytics(c.Request.Context(), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *HTTPServer) leaderboard(c *gin.Context) {
	limit, err := queryLimit(c, defaultLeaderboardLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	entries, err := s.dashboard.Leaderboard(c.Request.Context(), s.now(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if entries == nil {
		entries = []services.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (s *HTTPServer) authorScore(c *gin.Context) {
	entry, err := s.dashboard.AuthorScore(c.Request.Context(), c.Param("author"), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *HTTPServer) textAnalysis(c *gin.Context) {
	limit, err := queryLimit(c, defaultTextLimit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	ta, err := s.dashboard.TextAnalysis(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ta)
}

// queryLimit reads ?limit=, which must be a positive integer when present.
func queryLimit(c *gin.Context, def int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", common.ErrorValidation)
	}
	return n, nil
}
