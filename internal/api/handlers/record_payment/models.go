package record_payment

import "github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"

// RecordPaymentRequest отчет платежного сервиса об итоговой оплаченной сумме
type RecordPaymentRequest struct {
	PaidAmount float64 `json:"paidAmount"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RecordPaymentRequest) ToServiceRequest() *models.ApplyPaymentRequest {
	return &models.ApplyPaymentRequest{
		PaidAmount: r.PaidAmount,
	}
}
