package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-auction-query/query"
)

// defaultHistoryMonths is the BiddingHistory window when no since is given.
const defaultHistoryMonths = 3

// ListItems handles GET /api/items?page=&size=&search=&category=&minPrice=&maxPrice=.
// category may repeat.
func (h *Handler) ListItems(c *gin.Context) {
	p, err := pageable(c)
	if err != nil {
		fail(c, err)
		return
	}
	minPrice, err := decimalParam(c, "minPrice")
	if err != nil {
		fail(c, err)
		return
	}
	maxPrice, err := decimalParam(c, "maxPrice")
	if err != nil {
		fail(c, err)
		return
	}

	req := query.ListItemsRequest{
		Pageable: p,
		Search:   stringParam(c, "search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	if categories, ok := c.GetQueryArray("category"); ok {
		req.Categories = categories
	}

	page, err := h.queries.ListItems(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) FindItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		fail(c, err)
		return
	}
	info, err := h.queries.FindItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) HighestBidder(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		fail(c, err)
		return
	}
	bidder, err := h.queries.HighestBidder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bidderId": bidder})
}

func (h *Handler) PriceRange(c *gin.Context) {
	r, err := h.queries.FindPriceRange(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// SuggestName handles GET /api/items/suggest?name=.
func (h *Handler) SuggestName(c *gin.Context) {
	name, err := h.queries.SuggestName(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.queries.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Recommend handles GET /api/recommendations?count=&user=. Without user the
// regular recommendations are returned.
func (h *Handler) Recommend(c *gin.Context) {
	count := 0
	if raw, ok := c.GetQuery("count"); ok {
		n, err := intParam("count", raw)
		if err != nil {
			fail(c, err)
			return
		}
		count = n
	}

	items, err := h.queries.Recommend(c.Request.Context(), query.RecommendRequest{
		UserID: c.Query("user"),
		Count:  count,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ActiveItems(c *gin.Context) {
	req, ok := h.userRequest(c)
	if !ok {
		return
	}
	page, err := h.queries.ActiveItems(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) SoldItems(c *gin.Context) {
	req, ok := h.userRequest(c)
	if !ok {
		return
	}
	page, err := h.queries.SoldItems(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) BidItems(c *gin.Context) {
	req, ok := h.userRequest(c)
	if !ok {
		return
	}
	page, err := h.queries.BidItems(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// BiddingHistory handles GET /api/users/:user/history?since=. since defaults
// to three months ago.
func (h *Handler) BiddingHistory(c *gin.Context) {
	since, ok, err := timeParam(c, "since")
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		since = h.now().AddDate(0, -defaultHistoryMonths, 0)
	}

	items, err := h.queries.BiddingHistory(c.Request.Context(), c.Param("user"), since)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// InvalidateTag handles DELETE /api/cache/tags/:tag.
func (h *Handler) InvalidateTag(c *gin.Context) {
	if err := h.invalidator.InvalidateTags(c.Request.Context(), c.Param("tag")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userRequest(c *gin.Context) (query.UserItemsRequest, bool) {
	p, err := pageable(c)
	if err != nil {
		fail(c, err)
		return query.UserItemsRequest{}, false
	}
	return query.UserItemsRequest{UserID: c.Param("user"), Pageable: p}, true
}
