package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/middleware"
	"github.com/austcse/carnival-backend/types"
	"github.com/gin-gonic/gin"
)

// SegmentHandler serves the read-only segment catalog.
type SegmentHandler struct {
	catalog SegmentCatalog
	now     func() time.Time
}

// NewSegmentHandler creates a new SegmentHandler.
func NewSegmentHandler(catalog SegmentCatalog) *SegmentHandler {
	return &SegmentHandler{catalog: catalog, now: time.Now}
}

// ListSegments godoc
// @Summary      List segments
// @Description  All segments in catalog order, optionally filtered. Filters match exactly and combine.
// @Tags         segments
// @Produce      json
// @Param        category  query     string  false  "Category, case sensitive"
// @Param        type      query     string  false  "Online or Onsite"
// @Param        group     query     string  false  "workshop, prelim or main"
// @Success      200       {object}  types.StandardResponse{data=[]types.EventSegment}
// @Failure      400       {object}  types.ContactResponse
// @Router       /api/segments [get]
func (h *SegmentHandler) ListSegments(c *gin.Context) {
	var filter types.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid filter", err.Error()))
		return
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		_ = c.Error(errors.ValidationFailed("Invalid filter", fmt.Sprintf("unknown type %q", filter.Type)))
		return
	}
	if filter.Group != "" && !filter.Group.IsValid() {
		_ = c.Error(errors.ValidationFailed("Invalid filter", fmt.Sprintf("unknown group %q", filter.Group)))
		return
	}

	h.respondList(c, h.catalog.Find(filter))
}

// GetSegment godoc
// @Summary      Get a segment
// @Tags         segments
// @Produce      json
// @Param        id   path      string  true  "Segment id"
// @Success      200  {object}  types.StandardResponse{data=types.EventSegment}
// @Failure      404  {object}  types.ContactResponse
// @Router       /api/segments/{id} [get]
func (h *SegmentHandler) GetSegment(c *gin.Context) {
	id := c.Param("id")
	segment, ok := h.catalog.ByID(id)
	if !ok {
		_ = c.Error(errors.NotFound("Segment", id))
		return
	}

	c.JSON(http.StatusOK, types.StandardResponse{
		Success: true,
		Data:    segment,
		Meta:    &types.MetaInfo{RequestID: c.GetString(middleware.RequestIDKey), Count: 1},
	})
}

// ListUpcoming godoc
// @Summary      Upcoming segments
// @Description  Segments starting today or later, earliest first
// @Tags         segments
// @Produce      json
// @Success      200  {object}  types.StandardResponse{data=[]types.EventSegment}
// @Router       /api/segments/upcoming [get]
func (h *SegmentHandler) ListUpcoming(c *gin.Context) {
	h.respondList(c, h.catalog.Upcoming(h.now()))
}

// ListRelated godoc
// @Summary      Related segments
// @Description  Other segments in the same category
// @Tags         segments
// @Produce      json
// @Param        id   path      string  true  "Segment id"
// @Success      200  {object}  types.StandardResponse{data=[]types.EventSegment}
// @Failure      404  {object}  types.ContactResponse
// @Router       /api/segments/{id}/related [get]
func (h *SegmentHandler) ListRelated(c *gin.Context) {
	id := c.Param("id")
	related, ok := h.catalog.Related(id)
	if !ok {
		_ = c.Error(errors.NotFound("Segment", id))
		return
	}
	h.respondList(c, related)
}

// ListCategories godoc
// @Summary      Segment categories
// @Description  Distinct categories in order of first appearance
// @Tags         segments
// @Produce      json
// @Success      200  {object}  types.StandardResponse{data=[]string}
// @Router       /api/categories [get]
func (h *SegmentHandler) ListCategories(c *gin.Context) {
	categories := h.catalog.Categories()
	c.JSON(http.StatusOK, types.StandardResponse{
		Success: true,
		Data:    categories,
		Meta:    &types.MetaInfo{RequestID: c.GetString(middleware.RequestIDKey), Count: len(categories)},
	})
}

func (h *SegmentHandler) respondList(c *gin.Context, segments []types.EventSegment) {
	if segments == nil {
		segments = []types.EventSegment{}
	}
	c.JSON(http.StatusOK, types.StandardResponse{
		Success: true,
		Data:    segments,
		Meta:    &types.MetaInfo{RequestID: c.GetString(middleware.RequestIDKey), Count: len(segments)},
	})
}
