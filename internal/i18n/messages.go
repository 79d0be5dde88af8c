package i18n

import "github.com/bazaar-next/internal/constants"

// messages 错误与提示消息目录
var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.bad_request":              "invalid request",
		"error.internal":                 "internal server error",
		"error.auth_header_missing":      "authorization header missing",
		"error.auth_header_invalid":      "authorization header invalid",
		"error.unauthorized":             "authentication required",
		"error.user_id_invalid":          "invalid user identity",
		"error.user_id_type_invalid":     "unexpected user identity type",
		"error.token_invalid":            "invalid or expired token",
		"error.token_revoked":            "token has been revoked",
		"error.jwt_secret_missing":       "authentication is not configured",
		"error.user_disabled":            "account disabled",
		"error.forbidden":                "permission denied",
		"error.too_many_requests":        "too many requests, please try again later",
		"error.rate_limited":             "too many attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":   "rate limiting is temporarily unavailable",
		"error.captcha_required":         "captcha verification required",
		"error.captcha_invalid":          "captcha verification failed",
		"error.email_taken":              "email already registered",
		"error.invalid_credentials":      "invalid email or password",
		"error.weak_password":            "password does not meet the security policy",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a number",
		"error.password_require_special": "password must contain a special character",
		"error.user_not_found":           "user not found",
		"error.category_not_found":       "category not found",
		"error.product_not_found":        "product not found",
		"error.product_not_available":    "product is not available",
		"error.variant_not_found":        "product variant not found",
		"error.variant_not_available":    "product variant is not available",
		"error.sku_taken":                "sku already exists",
		"error.slug_taken":               "slug already exists",
		"error.invalid_quantity":         "quantity must be greater than zero",
		"error.insufficient_stock":       "insufficient stock",
		"error.cart_empty":               "cart is empty",
		"error.cart_item_not_found":      "cart item not found",
		"error.order_not_found":          "order not found",
		"error.order_invalid_status":     "invalid order status",
		"error.order_not_cancellable":    "order can no longer be cancelled",
		"error.reason_required":          "a reason is required",
		"error.shipping_address_missing": "shipping address is required",
		"error.shipping_method_invalid":  "invalid shipping settings",
		"error.payment_not_found":        "payment not found",
		"error.payment_exists":           "payment already exists for this order",
		"error.payment_invalid_method":   "invalid payment method",
		"error.payment_invalid_status":   "invalid payment status",
		"error.payment_not_refundable":   "only completed payments can be refunded",
		"error.refund_amount_invalid":    "refund amount exceeds the payment amount",
		"error.review_exists":            "you have already reviewed this product",
		"error.review_not_found":         "review not found",
		"error.review_invalid_rating":    "rating must be between 1 and 5",
		"error.question_not_found":       "question not found",
		"error.answer_not_found":         "answer not found",
		"error.email_invalid":                "invalid email address",
		"error.email_recipient_not_found":    "email recipient not found",
		"error.email_service_not_configured": "email service is not configured",
		"error.email_send_failed":            "failed to send email",

		"order.status.pending":    "Pending",
		"order.status.processing": "Processing",
		"order.status.shipped":    "Shipped",
		"order.status.delivered":  "Delivered",
		"order.status.cancelled":  "Cancelled",

		"email.order_status.subject":        "Order update: %s",
		"email.order_status.body":           "Your order %s is now %s.\nOrder total: %s",
		"email.order_status.body_shipped":   "Your order %s has been shipped.\nOrder total: %s\nTracking number: %s",
		"email.order_status.body_cancelled": "Your order %s has been cancelled.\nOrder total: %s",
	},
	constants.LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.internal":                 "服务器内部错误",
		"error.auth_header_missing":      "缺少认证信息",
		"error.auth_header_invalid":      "认证信息格式错误",
		"error.unauthorized":             "请先登录",
		"error.user_id_invalid":          "用户身份不合法",
		"error.user_id_type_invalid":     "用户身份类型异常",
		"error.token_invalid":            "登录已失效，请重新登录",
		"error.token_revoked":            "登录状态已被撤销",
		"error.jwt_secret_missing":       "认证服务未配置",
		"error.user_disabled":            "账号已被禁用",
		"error.forbidden":                "没有权限执行此操作",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.rate_limited":             "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.captcha_required":         "需要验证码",
		"error.captcha_invalid":          "验证码错误",
		"error.email_taken":              "邮箱已被注册",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.weak_password":            "密码不符合安全策略",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.user_not_found":           "用户不存在",
		"error.category_not_found":       "分类不存在",
		"error.product_not_found":        "商品不存在",
		"error.product_not_available":    "商品已下架",
		"error.variant_not_found":        "商品规格不存在",
		"error.variant_not_available":    "商品规格不可售",
		"error.sku_taken":                "SKU 已存在",
		"error.slug_taken":               "slug 已存在",
		"error.invalid_quantity":         "数量必须大于 0",
		"error.insufficient_stock":       "库存不足",
		"error.cart_empty":               "购物车为空",
		"error.cart_item_not_found":      "购物车项不存在",
		"error.order_not_found":          "订单不存在",
		"error.order_invalid_status":     "订单状态不合法",
		"error.order_not_cancellable":    "订单已不可取消",
		"error.reason_required":          "必须填写原因",
		"error.shipping_address_missing": "必须填写收货地址",
		"error.shipping_method_invalid":  "运费设置不合法",
		"error.payment_not_found":        "支付记录不存在",
		"error.payment_exists":           "该订单已存在支付记录",
		"error.payment_invalid_method":   "支付方式不合法",
		"error.payment_invalid_status":   "支付状态不合法",
		"error.payment_not_refundable":   "仅已完成的支付可退款",
		"error.refund_amount_invalid":    "退款金额超过支付金额",
		"error.review_exists":            "您已评价过该商品",
		"error.review_not_found":         "评价不存在",
		"error.review_invalid_rating":    "评分必须在 1 到 5 之间",
		"error.question_not_found":       "提问不存在",
		"error.answer_not_found":         "回答不存在",
		"error.email_invalid":                "邮箱地址不合法",
		"error.email_recipient_not_found":    "收件人不存在",
		"error.email_service_not_configured": "邮件服务未配置",
		"error.email_send_failed":            "邮件发送失败",

		"order.status.pending":    "待处理",
		"order.status.processing": "处理中",
		"order.status.shipped":    "已发货",
		"order.status.delivered":  "已送达",
		"order.status.cancelled":  "已取消",

		"email.order_status.subject":        "订单状态更新：%s",
		"email.order_status.body":           "您的订单 %s 当前状态为 %s。\n订单金额：%s",
		"email.order_status.body_shipped":   "您的订单 %s 已发货。\n订单金额：%s\n物流单号：%s",
		"email.order_status.body_cancelled": "您的订单 %s 已取消。\n订单金额：%s",
	},
}
