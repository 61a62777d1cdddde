package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/ports"
)

// ItemHandler serves the catalog.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// Create adds an item owned by the caller.
//
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body      createItemRequest  true  "Item"
// @Success      201   {object}  itemResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req createItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.CreateItem(c.Request().Context(), callerFrom(c), ports.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

// Update patches an item. Owner, ITEMUPDATE or ADMIN.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  itemResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /items/{id} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.UpdateItem(c.Request().Context(), callerFrom(c), c.Param("id"), toItemPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete removes an item. Owner, ITEMDELETE or ADMIN.
//
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	item, err := h.service.DeleteItem(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Get returns a single item.
//
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      404  {object}  map[string]string
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.service.Item(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// List pages through the catalog, newest first.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        skip    query     int     false  "Items to skip"
// @Param        first   query     int     false  "Page size (max 100)"
// @Param        fields  query     string  false  "Comma-separated projection, e.g. title,price"
// @Success      200     {array}   itemResponse
// @Failure      400     {object}  map[string]string
// @Router       /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	var q listItemsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	items, err := h.service.Items(c.Request().Context(), ports.ListItemsFilter{
		Skip:   q.Skip,
		First:  q.First,
		Fields: splitFields(q.Fields),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponses(items))
}

// Count returns the catalog size.
//
// @Summary      Count items
// @Tags         items
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /items/count [get]
func (h *ItemHandler) Count(c echo.Context) error {
	n, err := h.service.ItemsCount(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
