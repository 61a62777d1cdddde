package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/ports"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Add puts one unit of an item in the caller's cart.
//
// @Summary      Add to cart
// @Tags         cart
// @Produce      json
// @Param        itemID  path      string  true  "Item id"
// @Success      200     {object}  cartItemResponse
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /cart/{itemID} [post]
func (h *CartHandler) Add(c echo.Context) error {
	ci, err := h.service.AddToCart(c.Request().Context(), callerFrom(c), c.Param("itemID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartItemResponse(ci))
}

// Remove deletes a cart row. Only its owner may remove it.
//
// @Summary      Remove from cart
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Cart item id"
// @Success      200  {object}  cartItemResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	ci, err := h.service.RemoveFromCart(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartItemResponse(ci))
}

// Get returns the cart with live prices.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  map[string]string
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.service.Cart(c.Request().Context(), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}
