package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	client, err := NewClient(Config{
		TmnCode:    "TESTCODE",
		HashSecret: "testsecret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/payments/vnpay/callback",
	})
	require.NoError(t, err)
	client.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildPaymentURL(t *testing.T) {
	client := testClient(t)

	paymentURL, err := client.BuildPaymentURL(PaymentRequest{
		Amount:    150000,
		TxnRef:    "TXN123",
		OrderInfo: "Order payment TXN123",
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "2.1.0", query.Get(ParamVersion))
	assert.Equal(t, "pay", query.Get(ParamCommand))
	assert.Equal(t, "TESTCODE", query.Get(ParamTmnCode))
	assert.Equal(t, "15000000", query.Get(ParamAmount))
	assert.Equal(t, "TXN123", query.Get(ParamTxnRef))
	assert.Equal(t, "SHA512", query.Get(ParamSecureHashType))
	assert.Len(t, query.Get(ParamSecureHash), 128)
}

func TestBuildPaymentURL_CanonicalOrdering(t *testing.T) {
	client := testClient(t)

	paymentURL, err := client.BuildPaymentURL(PaymentRequest{
		Amount:    1000,
		TxnRef:    "TXN456",
		OrderInfo: "Order payment TXN456",
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	rawQuery := paymentURL[strings.Index(paymentURL, "?")+1:]
	keys := make([]string, 0)
	for _, pair := range strings.Split(rawQuery, "&") {
		keys = append(keys, pair[:strings.Index(pair, "=")])
	}

	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i], "query keys must be sorted")
	}

	// Spaces travel as '+', not '%20'
	assert.Contains(t, rawQuery, "Order+payment+TXN456")
}

func TestBuildPaymentURL_InvalidRequest(t *testing.T) {
	client := testClient(t)

	_, err := client.BuildPaymentURL(PaymentRequest{Amount: 0, TxnRef: "TXN"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = client.BuildPaymentURL(PaymentRequest{Amount: 100, TxnRef: ""})
	assert.ErrorIs(t, err, ErrInvalidTxnRef)
}

func signedCallback(client *Client, txnRef, responseCode string, amountMinor string) url.Values {
	query := url.Values{}
	query.Set(ParamTxnRef, txnRef)
	query.Set(ParamResponseCode, responseCode)
	query.Set(ParamAmount, amountMinor)
	query.Set(ParamSecureHash, client.sign(canonicalQuery(query)))
	return query
}

func TestVerifyCallback_Success(t *testing.T) {
	client := testClient(t)

	result, err := client.VerifyCallback(signedCallback(client, "TXN789", "00", "5000000"))
	require.NoError(t, err)
	assert.Equal(t, "TXN789", result.TxnRef)
	assert.Equal(t, "00", result.ResponseCode)
	assert.Equal(t, int64(50000), result.Amount)
	assert.True(t, result.Success)
}

func TestVerifyCallback_FailureCode(t *testing.T) {
	client := testClient(t)

	result, err := client.VerifyCallback(signedCallback(client, "TXN789", "24", "5000000"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "24", result.ResponseCode)
}

func TestVerifyCallback_TamperedParam(t *testing.T) {
	client := testClient(t)

	query := signedCallback(client, "TXN789", "24", "5000000")
	// Flipping the response code after signing must break the checksum
	query.Set(ParamResponseCode, "00")

	_, err := client.VerifyCallback(query)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestVerifyCallback_MissingSignature(t *testing.T) {
	client := testClient(t)

	query := url.Values{}
	query.Set(ParamTxnRef, "TXN789")
	query.Set(ParamResponseCode, "00")

	_, err := client.VerifyCallback(query)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestVerifyCallback_WrongSecret(t *testing.T) {
	client := testClient(t)
	other, err := NewClient(Config{
		TmnCode:    "TESTCODE",
		HashSecret: "othersecret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/payments/vnpay/callback",
	})
	require.NoError(t, err)

	query := signedCallback(other, "TXN789", "00", "100000")
	_, err = client.VerifyCallback(query)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
