package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-catalog/internal/core/domain"
	"github.com/nulzo/model-catalog/internal/core/services"
	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/nulzo/model-catalog/pkg/catalog"
)

type BudgetRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ListCatalog returns every cataloged model, optionally filtered by family.
//
// GET /v1/catalog?family=gpt-4
func (h *Handler) ListCatalog(c *gin.Context) {
	family := catalog.Family(c.Query("family"))

	entries, err := h.service.Catalog(family)
	if err != nil {
		if errors.Is(err, services.ErrUnknownFamily) {
			_ = c.Error(domain.BadRequestError(
				fmt.Sprintf("Unknown family %q", family),
				domain.WithExtension("families", catalog.Families()),
			))
			return
		}
		_ = c.Error(domain.InternalError("Failed to list catalog", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   entries,
	})
}

// GetCatalogEntry describes one cataloged model.
//
// GET /v1/catalog/:id
func (h *Handler) GetCatalogEntry(c *gin.Context) {
	id := c.Param("id")

	entry, err := h.service.Describe(id)
	if err != nil {
		_ = c.Error(catalogProblem(id, err))
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Budget counts the prompt's tokens against the model's context size.
//
// POST /v1/catalog/:id/budget
func (h *Handler) Budget(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(domain.ParseValidationError(err)))
		return
	}

	id := c.Param("id")
	budget, err := h.service.Budget(c.Request.Context(), id, req.Prompt)
	if err != nil {
		var overflow *tokenizer.OverflowError
		if errors.As(err, &overflow) {
			_ = c.Error(domain.UnprocessableError(
				overflow.Error(),
				domain.WithType("/problems/context-overflow"),
				domain.WithExtension("limit", overflow.Budget.Limit),
				domain.WithExtension("prompt_tokens", overflow.Budget.Prompt),
			))
			return
		}
		_ = c.Error(catalogProblem(id, err))
		return
	}

	c.JSON(http.StatusOK, budget)
}

func catalogProblem(id string, err error) *domain.Problem {
	switch {
	case errors.Is(err, catalog.ErrUnknownModel):
		return domain.NotFoundError(fmt.Sprintf("Model %q is not cataloged", id))
	case errors.Is(err, tokenizer.ErrNoLimit):
		return domain.BadRequestError(fmt.Sprintf("Model %q has no token limit", id))
	default:
		return domain.InternalError("Failed to resolve model", err)
	}
}
