package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centsible/centsible/internal/model"
)

type createCategoryRequest struct {
	Name string             `json:"name" binding:"required"`
	Type model.CategoryType `json:"type" binding:"required,oneof=income expense"`
}

type updateCategoryRequest struct {
	Name string             `json:"name"`
	Type model.CategoryType `json:"type" binding:"omitempty,oneof=income expense"`
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.ledger.ListCategories(c.Request.Context(), ownerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := s.ledger.CreateCategory(c.Request.Context(), ownerID(c), req.Name, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := s.ledger.UpdateCategory(c.Request.Context(), ownerID(c), c.Param("id"), req.Name, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	deleted, err := s.ledger.DeleteCategory(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
