package service

import "errors"

// 业务哨兵错误，由 HTTP 层统一映射为响应码
var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrWeakPassword         = errors.New("weak password")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserDisabled         = errors.New("user disabled")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNotAvailable  = errors.New("product not available")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrVariantNotAvailable  = errors.New("variant not available")
	ErrSKUTaken             = errors.New("sku already exists")
	ErrSlugTaken            = errors.New("slug already exists")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrOrderNotCancellable  = errors.New("order not cancellable")
	ErrReasonRequired       = errors.New("reason required")
	ErrShippingAddressEmpty = errors.New("shipping address required")
	ErrShippingInvalid      = errors.New("invalid shipping settings")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentExists        = errors.New("payment already exists")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrPaymentNotRefundable = errors.New("payment not refundable")
	ErrRefundAmountInvalid  = errors.New("refund amount invalid")
	ErrReviewExists         = errors.New("review already exists")
	ErrReviewNotFound       = errors.New("review not found")
	ErrInvalidRating        = errors.New("invalid rating")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAnswerNotFound       = errors.New("answer not found")

	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
