package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-auction-query/paging"
)

// pageable reads page and size. Both absent yields the zero Pageable, which
// the queries replace with the default page.
func pageable(c *gin.Context) (paging.Pageable, error) {
	pageRaw, hasPage := c.GetQuery("page")
	sizeRaw, hasSize := c.GetQuery("size")
	if !hasPage && !hasSize {
		return paging.Pageable{}, nil
	}

	number, size := paging.DefaultPageNumber, paging.DefaultPageSize
	var err error
	if hasPage {
		if number, err = intParam("page", pageRaw); err != nil {
			return paging.Pageable{}, err
		}
	}
	if hasSize {
		if size, err = intParam("size", sizeRaw); err != nil {
			return paging.Pageable{}, err
		}
	}
	return paging.Of(number, size)
}

func intParam(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &RequestError{Param: name, Message: "not an integer"}
	}
	return v, nil
}

func decimalParam(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &RequestError{Param: name, Message: "not a decimal number"}
	}
	return &d, nil
}

func stringParam(c *gin.Context, name string) *string {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	return &raw
}

func timeParam(c *gin.Context, name string) (time.Time, bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, &RequestError{Param: name, Message: "expected an RFC 3339 timestamp"}
	}
	return t, true, nil
}

func itemID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &RequestError{Param: "id", Message: "not a UUID"}
	}
	return id, nil
}
