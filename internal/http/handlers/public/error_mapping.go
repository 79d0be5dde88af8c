package public

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

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
	{target: service.ErrVariantNotAvailable, code: response.CodeBadRequest, key: "error.variant_not_available"},
}

var cartErrorRules = concatMappedHandlerErrors(catalogErrorRules, []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrShippingInvalid, code: response.CodeBadRequest, key: "error.shipping_method_invalid"},
})

var checkoutErrorRules = concatMappedHandlerErrors(cartErrorRules, []mappedHandlerError{
	{target: service.ErrShippingAddressEmpty, code: response.CodeBadRequest, key: "error.shipping_address_missing"},
})

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrInvalidOrderStatus, code: response.CodeBadRequest, key: "error.order_invalid_status"},
	{target: service.ErrOrderNotCancellable, code: response.CodeBadRequest, key: "error.order_not_cancellable"},
	{target: service.ErrReasonRequired, code: response.CodeBadRequest, key: "error.reason_required"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrPaymentExists, code: response.CodeBadRequest, key: "error.payment_exists"},
	{target: service.ErrInvalidPaymentMethod, code: response.CodeBadRequest, key: "error.payment_invalid_method"},
	{target: service.ErrInvalidPaymentStatus, code: response.CodeBadRequest, key: "error.payment_invalid_status"},
	{target: service.ErrRefundAmountInvalid, code: response.CodeBadRequest, key: "error.refund_amount_invalid"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewExists, code: response.CodeBadRequest, key: "error.review_exists"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, key: "error.review_not_found"},
	{target: service.ErrInvalidRating, code: response.CodeBadRequest, key: "error.review_invalid_rating"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}

var qnaErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrQuestionNotFound, code: response.CodeNotFound, key: "error.question_not_found"},
	{target: service.ErrAnswerNotFound, code: response.CodeNotFound, key: "error.answer_not_found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.forbidden"},
}
