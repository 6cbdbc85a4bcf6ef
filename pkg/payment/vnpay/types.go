package vnpay

// Parameter names of the VNPay 2.1.0 pay command.
const (
	ParamVersion        = "vnp_Version"
	ParamCommand        = "vnp_Command"
	ParamTmnCode        = "vnp_TmnCode"
	ParamAmount         = "vnp_Amount"
	ParamCreateDate     = "vnp_CreateDate"
	ParamCurrCode       = "vnp_CurrCode"
	ParamIPAddr         = "vnp_IpAddr"
	ParamLocale         = "vnp_Locale"
	ParamOrderInfo      = "vnp_OrderInfo"
	ParamOrderType      = "vnp_OrderType"
	ParamReturnURL      = "vnp_ReturnUrl"
	ParamTxnRef         = "vnp_TxnRef"
	ParamResponseCode   = "vnp_ResponseCode"
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
)

const (
	version          = "2.1.0"
	commandPay       = "pay"
	currencyVND      = "VND"
	localeVN         = "vn"
	orderTypeOther   = "other"
	secureHashSHA512 = "SHA512"

	// ResponseCodeSuccess is the gateway response code for an approved payment
	ResponseCodeSuccess = "00"

	createDateLayout = "20060102150405"
)

// PaymentRequest carries the merchant-side inputs for building a
// hosted-payment redirect URL. Amount is in VND; the gateway wire
// format multiplies it by 100 (minor units).
type PaymentRequest struct {
	Amount    int64
	TxnRef    string
	OrderInfo string
	ClientIP  string
}

// CallbackResult is the verified outcome of a return callback.
type CallbackResult struct {
	TxnRef       string
	ResponseCode string
	Amount       int64
	Success      bool
}
