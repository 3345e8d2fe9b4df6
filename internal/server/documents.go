package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
)

func (s *Server) ListDocuments(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	docs, err := s.documentSvc.List(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}

func (s *Server) CreateDocument(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req documentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, err := s.documentSvc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (s *Server) GetDocument(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := s.documentSvc.Get(c.Request.Context(), accountID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) UpdateDocument(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req documentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, err := s.documentSvc.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.documentSvc.Delete(c.Request.Context(), accountID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ExportDocumentPDF(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	export, err := s.documentSvc.ExportPDF(c.Request.Context(), accountID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}
