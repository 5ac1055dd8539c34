package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-catalog/internal/core/domain"
	"github.com/nulzo/model-catalog/internal/store"
	"github.com/nulzo/model-catalog/pkg/catalog"
)

// ListModels returns every imported model record.
//
// GET /v1/models
func (h *Handler) ListModels(c *gin.Context) {
	models, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to list models", err))
		return
	}
	if models == nil {
		models = []catalog.Model{}
	}

	c.JSON(http.StatusOK, catalog.ModelList{Object: "list", Data: models})
}

// ImportModels stores a model listing. A malformed record rejects the whole listing.
//
// POST /v1/models
func (h *Handler) ImportModels(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		_ = c.Error(domain.BadRequestError("Failed to read request body", domain.WithLog(err)))
		return
	}

	n, err := h.service.Import(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, catalog.ErrMalformedRecord) {
			_ = c.Error(domain.MalformedRecordError(err))
			return
		}
		_ = c.Error(domain.InternalError("Failed to import models", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": n})
}

// GetModel returns one imported model record.
//
// GET /v1/models/:id
func (h *Handler) GetModel(c *gin.Context) {
	id := c.Param("id")

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(recordProblem(id, err))
		return
	}

	c.JSON(http.StatusOK, m)
}

// DeleteModel removes one imported model record.
//
// DELETE /v1/models/:id
func (h *Handler) DeleteModel(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(recordProblem(id, err))
		return
	}

	c.Status(http.StatusNoContent)
}

func recordProblem(id string, err error) *domain.Problem {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFoundError(fmt.Sprintf("Model %q has not been imported", id))
	}
	return domain.InternalError("Failed to access model store", err)
}
