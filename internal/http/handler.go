package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/filter"
	"github.com/nurpe/icontrol-orders/internal/model"
	"github.com/nurpe/icontrol-orders/internal/service"
	"github.com/nurpe/icontrol-orders/internal/websocket"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	orders    *service.OrderService
	customers *service.CustomerService
	hub       *websocket.Hub
	log       zerolog.Logger
}

func NewHandler(orders *service.OrderService, customers *service.CustomerService, hub *websocket.Hub, log zerolog.Logger) *Handler {
	return &Handler{orders: orders, customers: customers, hub: hub, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	if h.hub != nil {
		router.GET("/ws", h.hub.HandleWebSocket)
	}
	router.GET("/statuses", h.listStatuses)

	router.GET("/orders", h.listOrders)
	router.POST("/orders", h.createOrder)
	router.GET("/orders/:id", h.getOrder)
	router.PUT("/orders/:id", h.updateOrder)
	router.DELETE("/orders/:id", h.deleteOrder)
	router.POST("/orders/:id/transition", h.transitionOrder)
	router.GET("/orders/:id/receipt.pdf", h.orderReceipt)
	router.GET("/board", h.board)
	router.GET("/summary", h.summary)
	router.GET("/exports/orders.xlsx", h.exportOrders)

	router.GET("/customers", h.listCustomers)
	router.POST("/customers", h.createCustomer)
	router.GET("/customers/:id", h.getCustomer)
	router.GET("/customers/:id/orders", h.customerOrders)
	router.DELETE("/customers/:id", h.deleteCustomer)
}

type orderResponse struct {
	model.Order
	Stage        model.Stage     `json:"stage"`
	DisplayValue decimal.Decimal `json:"display_value"`
}

func toOrderResponse(order model.Order) orderResponse {
	return orderResponse{Order: order, Stage: order.Stage(), DisplayValue: order.DisplayValue()}
}

func toOrderResponses(orders []model.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

type statusInfo struct {
	Status model.Status   `json:"status"`
	Stage  model.Stage    `json:"stage"`
	Next   []model.Status `json:"next"`
}

type statusCatalogue struct {
	Type     model.OrderType `json:"type"`
	Prefix   string          `json:"prefix"`
	Initial  model.Status    `json:"initial"`
	Statuses []statusInfo    `json:"statuses"`
}

func (h *Handler) listStatuses(c *gin.Context) {
	types := model.OrderTypes
	if raw := strings.TrimSpace(c.Query("type")); raw != "" && raw != filter.All {
		orderType, ok := model.ParseOrderType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}
		types = []model.OrderType{orderType}
	}

	result := make([]statusCatalogue, 0, len(types))
	for _, orderType := range types {
		entry := statusCatalogue{Type: orderType, Prefix: orderType.Prefix(), Initial: orderType.InitialStatus()}
		for _, status := range orderType.Statuses() {
			entry.Statuses = append(entry.Statuses, statusInfo{
				Status: status,
				Stage:  model.StageOf(status),
				Next:   orderType.NextStatuses(status),
			})
		}
		result = append(result, entry)
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), criteriaFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toOrderResponses(orders), "count": len(orders)})
}

type createOrderRequest struct {
	service.CreateOrderInput
	ExpectedCompletionDate string `json:"expected_completion_date"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := req.CreateOrderInput
	if strings.TrimSpace(req.ExpectedCompletionDate) != "" {
		date, err := parseDate(req.ExpectedCompletionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_completion_date"})
			return
		}
		input.ExpectedCompletionDate = &date
	}
	input.IdempotencyKey = c.GetHeader("Idempotency-Key")

	order, err := h.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	setETag(c, order.Version)
	c.JSON(http.StatusCreated, gin.H{"data": toOrderResponse(*order)})
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	setETag(c, order.Version)
	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(*order)})
}

type updateOrderRequest struct {
	service.UpdateOrderInput
	ExpectedCompletionDate *string `json:"expected_completion_date"`
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := req.UpdateOrderInput
	if req.ExpectedCompletionDate != nil && strings.TrimSpace(*req.ExpectedCompletionDate) == "" {
		input.ClearExpectedCompletionDate = true
	} else if req.ExpectedCompletionDate != nil {
		date, err := parseDate(*req.ExpectedCompletionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_completion_date"})
			return
		}
		input.ExpectedCompletionDate = &date
	}
	if raw := c.GetHeader("If-Match"); raw != "" {
		version, err := parseVersion(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid If-Match header"})
			return
		}
		input.ExpectedVersion = version
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	setETag(c, order.Version)
	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(*order)})
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) transitionOrder(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.RequestStatusTransition(c.Request.Context(), c.Param("id"), model.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		h.handleError(c, err)
		return
	}
	setETag(c, order.Version)
	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(*order)})
}

func (h *Handler) orderReceipt(c *gin.Context) {
	result, err := h.orders.OrderReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

type boardColumnResponse struct {
	Status model.Status    `json:"status"`
	Stage  model.Stage     `json:"stage"`
	Count  int             `json:"count"`
	Orders []orderResponse `json:"orders"`
}

func (h *Handler) board(c *gin.Context) {
	board, err := h.orders.Board(c.Request.Context(), criteriaFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	columns := make([]boardColumnResponse, 0, len(board.Columns))
	for _, column := range board.Columns {
		columns = append(columns, boardColumnResponse{
			Status: column.Status,
			Stage:  column.Stage,
			Count:  column.Count,
			Orders: toOrderResponses(column.Orders),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"columns": columns}})
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.orders.Summary(c.Request.Context(), criteriaFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *Handler) exportOrders(c *gin.Context) {
	result, err := h.orders.ExportOrders(c.Request.Context(), criteriaFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "count": len(customers)})
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CreateCustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, err := h.customers.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (h *Handler) getCustomer(c *gin.Context) {
	summary, err := h.customers.CustomerSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *Handler) customerOrders(c *gin.Context) {
	orders, err := h.customers.GetOrdersForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toOrderResponses(orders), "count": len(orders)})
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func criteriaFromQuery(c *gin.Context) filter.Criteria {
	return filter.ParseCriteria(filter.RawCriteria{
		Search:        c.Query("search"),
		Type:          c.Query("type"),
		Statuses:      queryList(c, "status"),
		Stages:        queryList(c, "stage"),
		Priority:      c.Query("priority"),
		PaymentStatus: c.Query("payment_status"),
		DateFrom:      c.Query("date_from"),
		DateTo:        c.Query("date_to"),
		CustomerID:    c.Query("customer_id"),
	})
}

// queryList accepts both repeated parameters and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var result []string
	for _, raw := range c.QueryArray(key) {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
	}
	return result
}

func setETag(c *gin.Context, version int64) {
	c.Header("ETag", strconv.Quote(strconv.FormatInt(version, 10)))
}

func parseVersion(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 0 {
		return 0, service.ErrInvalidInput
	}
	return version, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
