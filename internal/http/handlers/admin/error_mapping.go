package admin

import (
	"errors"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var userErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var categoryErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrSlugTaken, code: response.CodeBadRequest, key: "error.slug_taken"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrInvalidOrderStatus, code: response.CodeBadRequest, key: "error.order_invalid_status"},
	{target: service.ErrOrderNotCancellable, code: response.CodeBadRequest, key: "error.order_not_cancellable"},
	{target: service.ErrInvalidPaymentStatus, code: response.CodeBadRequest, key: "error.payment_invalid_status"},
	{target: service.ErrReasonRequired, code: response.CodeBadRequest, key: "error.reason_required"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrPaymentExists, code: response.CodeBadRequest, key: "error.payment_exists"},
	{target: service.ErrInvalidPaymentMethod, code: response.CodeBadRequest, key: "error.payment_invalid_method"},
	{target: service.ErrInvalidPaymentStatus, code: response.CodeBadRequest, key: "error.payment_invalid_status"},
	{target: service.ErrPaymentNotRefundable, code: response.CodeBadRequest, key: "error.payment_not_refundable"},
	{target: service.ErrRefundAmountInvalid, code: response.CodeBadRequest, key: "error.refund_amount_invalid"},
	{target: service.ErrReasonRequired, code: response.CodeBadRequest, key: "error.reason_required"},
}

var moderationErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrQuestionNotFound, code: response.CodeNotFound, key: "error.question_not_found"},
	{target: service.ErrAnswerNotFound, code: response.CodeNotFound, key: "error.answer_not_found"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, key: "error.review_not_found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}
