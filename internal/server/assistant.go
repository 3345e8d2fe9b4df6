package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
)

func (s *Server) Assist(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req assistantdomain.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Action = assistantdomain.Action(strings.TrimSpace(string(req.Action)))
	c.Set("assist_action", string(req.Action))

	result, err := s.assistantSvc.Assist(c.Request.Context(), accountID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
