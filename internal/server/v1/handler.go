package v1

import (
	"github.com/nulzo/model-catalog/internal/core/ports"
)

type Handler struct {
	service ports.ModelService
}

func NewHandler(service ports.ModelService) *Handler {
	return &Handler{service: service}
}
