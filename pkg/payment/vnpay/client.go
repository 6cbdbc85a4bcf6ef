package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Client builds signed redirect URLs for the VNPay hosted payment page
// and verifies return-callback signatures.
type Client struct {
	config Config
	now    func() time.Time
}

// NewClient creates a new VNPay client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		now:    time.Now,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// BuildPaymentURL assembles the redirect URL for a pay command. The
// query string is canonical: keys sorted lexicographically, values
// percent-encoded with spaces as '+', signed with HMAC-SHA512 over the
// canonical string before the signature fields are appended.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	if req.TxnRef == "" {
		return "", ErrInvalidTxnRef
	}

	params := url.Values{}
	params.Set(ParamVersion, version)
	params.Set(ParamCommand, commandPay)
	params.Set(ParamTmnCode, c.config.TmnCode)
	params.Set(ParamAmount, strconv.FormatInt(req.Amount*100, 10))
	params.Set(ParamCreateDate, c.now().Format(createDateLayout))
	params.Set(ParamCurrCode, currencyVND)
	params.Set(ParamIPAddr, req.ClientIP)
	params.Set(ParamLocale, localeVN)
	params.Set(ParamOrderInfo, req.OrderInfo)
	params.Set(ParamOrderType, orderTypeOther)
	params.Set(ParamReturnURL, c.config.ReturnURL)
	params.Set(ParamTxnRef, req.TxnRef)

	signData := canonicalQuery(params)
	params.Set(ParamSecureHashType, secureHashSHA512)
	params.Set(ParamSecureHash, c.sign(signData))

	return c.config.PayURL + "?" + canonicalQuery(params), nil
}

// VerifyCallback recomputes the signature over the echoed parameters,
// excluding the signature fields themselves, and returns the callback
// outcome. ErrChecksumMismatch means the parameters were tampered with
// and nothing about the callback can be trusted.
func (c *Client) VerifyCallback(query url.Values) (*CallbackResult, error) {
	received := query.Get(ParamSecureHash)
	if received == "" {
		return nil, ErrChecksumMismatch
	}

	params := url.Values{}
	for key, values := range query {
		if key == ParamSecureHash || key == ParamSecureHashType {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}

	expected := c.sign(canonicalQuery(params))
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, ErrChecksumMismatch
	}

	responseCode := query.Get(ParamResponseCode)
	amountMinor, _ := strconv.ParseInt(query.Get(ParamAmount), 10, 64)

	return &CallbackResult{
		TxnRef:       query.Get(ParamTxnRef),
		ResponseCode: responseCode,
		Amount:       amountMinor / 100,
		Success:      responseCode == ResponseCodeSuccess,
	}, nil
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.config.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery renders values the RFC1738 way the gateway expects:
// url.Values.Encode already sorts keys and encodes spaces as '+'.
func canonicalQuery(params url.Values) string {
	return params.Encode()
}
