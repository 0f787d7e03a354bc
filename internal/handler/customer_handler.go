package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ragrids/internal/model"
	"ragrids/internal/service"
)

// CustomerHandler serves the admin's view of registered customers.
type CustomerHandler struct {
	svc service.UserService
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(svc service.UserService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// CustomersResponse is the customer listing.
type CustomersResponse struct {
	Message string       `json:"message"`
	Count   int          `json:"count"`
	Result  []model.User `json:"result"`
}

// List godoc
// @Summary List customers
// @Description Admin only. Customers ordered by registration time, with their documents.
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} CustomersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	users, err := h.svc.ListCustomers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CustomersResponse{
		Message: "Customers fetched successfully",
		Count:   len(users),
		Result:  users,
	})
}
