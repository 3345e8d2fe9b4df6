package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
)

type renameFolderRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateFolder(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req folderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	folder, err := s.folderSvc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": folder})
}

func (s *Server) GetFolderStructure(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	structure, err := s.folderSvc.Structure(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": structure})
}

func (s *Server) MoveItem(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req folderdomain.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.ItemID == 0 {
		AbortWithError(c, newValidationError("item_id", "required", "item_id is required"))
		return
	}

	if err := s.folderSvc.Move(c.Request.Context(), accountID, req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RenameFolder(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req renameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	folder, err := s.folderSvc.Rename(c.Request.Context(), accountID, id, strings.TrimSpace(req.Name))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": folder})
}

func (s *Server) DeleteFolder(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.folderSvc.Delete(c.Request.Context(), accountID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
