package service

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// exportTimeLayout 导出时间格式
const exportTimeLayout = "2006-01-02 15:04:05"

// exportHeader 导出列（顺序固定）
var exportHeader = []string{
	"Order ID",
	"Customer",
	"Status",
	"Payment Status",
	"Created At",
	"Total Price",
	"Cancelled At",
	"Cancelled By",
	"Cancelled By Role",
	"Cancellation Reason",
	"Shipping Address",
	"Tracking Number",
}

// ExportCSV 导出订单为 CSV（sellerID 为 0 时导出全部，否则限定该卖家商品所在订单）
func (s *OrderService) ExportCSV(sellerID uint, filter repository.OrderListFilter) ([]byte, error) {
	filter.SellerID = sellerID
	filter.Page = 0
	filter.PageSize = 0
	orders, err := s.orderRepo.ListForExport(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := writer.Write(exportRow(&orders[i])); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(order *models.Order) []string {
	customer := ""
	if order.User != nil {
		customer = order.User.Email
	}
	cancelledAt := ""
	if order.CancelledAt != nil {
		cancelledAt = order.CancelledAt.Format(exportTimeLayout)
	}
	cancelledBy := ""
	if order.CancelledBy != nil {
		cancelledBy = order.CancelledBy.Email
	}
	return []string{
		order.OrderNo,
		customer,
		order.Status,
		order.PaymentStatus,
		order.CreatedAt.Format(exportTimeLayout),
		order.TotalAmount.String(),
		cancelledAt,
		cancelledBy,
		order.CancelledByRole,
		order.CancellationReason,
		order.ShippingAddress,
		order.TrackingNumber,
	}
}

// ExportFilename 生成导出文件名
func ExportFilename(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102_150405") + ".csv"
}
