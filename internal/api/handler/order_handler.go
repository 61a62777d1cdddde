package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/ports"
)

// OrderHandler serves checkout and order history.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create charges the caller's cart and turns it into an order.
//
// A 502 means the payment outcome is unknown: the client should check
// GET /orders before trying again.
//
// @Summary      Checkout
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Payment source token"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.Request().Context(), callerFrom(c), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get returns one order. Owner or ADMIN.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Order(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// List returns orders newest first. user_id other than the caller's needs ADMIN.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        user_id  query     string  false  "Owner to list (defaults to caller)"
// @Success      200      {array}   orderResponse
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	var q listOrdersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	orders, err := h.service.Orders(c.Request().Context(), callerFrom(c), q.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}
