package handler

import (
	"net/http"
	"strings"
	"time"

	"course_platform/internal/domain/membership/model"
	"course_platform/internal/domain/membership/service"
	"course_platform/internal/pkg/middleware"
	"course_platform/pkg/apperr"
	"course_platform/pkg/response"
	"course_platform/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler 会员订单处理器
type OrderHandler struct {
	service service.OrderService
	now     func() time.Time
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service, now: time.Now}
}

func callerOf(c *gin.Context) service.Caller {
	return service.Caller{UserID: middleware.CurrentUserID(c), Admin: middleware.IsAdmin(c)}
}

func bindError(c *gin.Context, err error) {
	response.FromError(c, apperr.Validation("invalid request: %v", err))
}

// CreateOrder 创建会员订单
// @Summary 创建会员订单
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body CreateOrderInput true "套餐"
// @Success 200 {object} response.Response{data=OrderResponse}
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /membership/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), callerOf(c), input.PlanID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toOrderResponse(order, h.now()))
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=OrderResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /membership/orders/{order_no} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), callerOf(c), c.Param("order_no"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toOrderResponse(order, h.now()))
}

// PayOrder 发起支付
// @Summary 发起支付
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_no path string true "订单号"
// @Param input body PayOrderInput false "支付方式"
// @Success 200 {object} response.Response{data=service.PaymentResult}
// @Failure 422 {object} response.Response
// @Router /membership/orders/{order_no}/pay [post]
func (h *OrderHandler) PayOrder(c *gin.Context) {
	var input PayOrderInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
	}

	result, err := h.service.PayOrder(c.Request.Context(), callerOf(c), c.Param("order_no"), input.PaymentMethod)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// QueryPayment 查询支付结果并同步订单状态
// @Summary 查询支付结果
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=service.ReconciliationResult}
// @Router /membership/orders/{order_no}/payment [get]
func (h *OrderHandler) QueryPayment(c *gin.Context) {
	caller := callerOf(c)
	orderNo := c.Param("order_no")
	if _, err := h.service.GetOrder(c.Request.Context(), caller, orderNo); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.QueryPayment(c.Request.Context(), orderNo)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// OrderAction 取消或退款
// @Summary 订单操作
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_no path string true "订单号"
// @Param input body OrderActionInput true "cancel / refund"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /membership/orders/{order_no}/action [post]
func (h *OrderHandler) OrderAction(c *gin.Context) {
	var input OrderActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.service.OrderAction(c.Request.Context(), callerOf(c), c.Param("order_no"), input.Action); err != nil {
		response.FromError(c, err)
		return
	}
	msg := "order cancelled"
	if input.Action == service.ActionRefund {
		msg = "order refunded"
	}
	response.SuccessWithMessage(c, msg, nil)
}

// ListOrders 订单列表
// @Summary 订单列表
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param scope query string false "my 仅看自己"
// @Param status query string false "PENDING / PAID / CANCELLED / REFUNDED / EXPIRED"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /membership/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	page := utils.Pagination{Page: query.Page, Limit: query.Limit}
	page.GetPageOffset()
	orders, total, err := h.service.ListOrders(c.Request.Context(), callerOf(c), service.OrderQuery{
		Scope:  query.Scope,
		Status: model.OrderStatus(strings.ToUpper(query.Status)),
	}, page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	now := h.now()
	list := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		list = append(list, toOrderResponse(&orders[i], now))
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: page.Page, Limit: page.Limit})
}

// Notify 支付网关异步通知，验签失败返回 400 让网关重试
// @Summary 支付回调
// @Tags payment
// @Param channel path string true "alipay / wechat"
// @Router /payment/notify/{channel} [post]
func (h *OrderHandler) Notify(c *gin.Context) {
	method, ok := notifyMethod(c.Param("channel"))
	if !ok {
		c.String(http.StatusNotFound, "fail")
		return
	}
	gw, err := h.service.HandleNotify(c.Request.Context(), method, c.Request)
	if err != nil {
		e := apperr.From(err)
		status := http.StatusInternalServerError
		if e.Kind == apperr.KindValidation || e.Kind == apperr.KindNotFound {
			status = http.StatusBadRequest
		}
		c.String(status, "fail")
		return
	}
	gw.AckNotification(c.Writer)
}

// notifyMethod 只有真实网关开放回调，模拟支付在下单时同步确认，不接受外部通知
func notifyMethod(channel string) (string, bool) {
	switch channel {
	case "alipay":
		return model.PaymentMethodAlipay, true
	case "wechat":
		return model.PaymentMethodWechat, true
	}
	return "", false
}
