package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
)

func (s *Server) CreateShareLink(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "documentId")
	if !ok {
		return
	}

	var req sharedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	link, err := s.shareSvc.Create(c.Request.Context(), accountID, documentID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": link})
}

func (s *Server) ListShareLinks(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "documentId")
	if !ok {
		return
	}

	links, err := s.shareSvc.List(c.Request.Context(), accountID, documentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": links})
}

func (s *Server) RevokeShareLink(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	if err := s.shareSvc.Revoke(c.Request.Context(), accountID, linkID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetSharedDocument(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	shared, err := s.shareSvc.Resolve(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shared})
}

func (s *Server) UpdateSharedDocument(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req sharedomain.UpdateSharedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shared, err := s.shareSvc.UpdateShared(c.Request.Context(), token, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shared})
}
