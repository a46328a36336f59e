package poi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/loci-citymap/internal/app/domain"
	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

type Handlers struct {
	*domain.BaseHandler
	service Service
}

func NewHandlers(base *domain.BaseHandler, service Service) *Handlers {
	return &Handlers{BaseHandler: base, service: service}
}

type categoryResponse struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Icon     string          `json:"icon"`
	Color    string          `json:"color"`
	Count    int             `json:"count"`
}

// ListPOIs handles GET /api/pois[?category=].
func (h *Handlers) ListPOIs(c *gin.Context) {
	filter, err := models.ParseCategory(c.Query("category"))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	pois, err := h.service.ListByCategory(c.Request.Context(), filter)
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	if pois == nil {
		pois = []models.POI{}
	}
	c.JSON(http.StatusOK, gin.H{"category": filter, "count": len(pois), "pois": pois})
}

// GetPOI handles GET /api/pois/:id.
func (h *Handlers) GetPOI(c *gin.Context) {
	p, err := h.service.GetPOI(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListCategories handles GET /api/categories in filter bar order.
func (h *Handlers) ListCategories(c *gin.Context) {
	counts, err := h.service.CountByCategory(c.Request.Context())
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(models.FilterOrder))
	for _, cat := range models.FilterOrder {
		style := cat.Style()
		out = append(out, categoryResponse{
			Category: cat,
			Label:    style.Label,
			Icon:     style.Icon,
			Color:    style.Color,
			Count:    counts[cat],
		})
	}
	c.JSON(http.StatusOK, out)
}
