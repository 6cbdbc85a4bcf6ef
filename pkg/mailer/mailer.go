package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ttmai/velora-backend/config"
)

// OrderSummary is the receipt payload rendered into the notification
// mail after a successful checkout.
type OrderSummary struct {
	OrderCode     string
	RecipientName string
	ItemCount     int
	TotalMoney    float64
	PaymentStatus string
}

// ReceiptSender delivers order receipts. Delivery is fire-and-forget:
// a failure is logged by the caller and never rolls back the order.
type ReceiptSender interface {
	SendReceipt(to string, summary OrderSummary) error
}

// SMTPSender sends receipts over plain SMTP with AUTH.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates an SMTP-backed receipt sender
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendReceipt sends an order confirmation mail
func (s *SMTPSender) SendReceipt(to string, summary OrderSummary) error {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("Subject: Your Velora order %s\r\n", summary.OrderCode))
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	body.WriteString(fmt.Sprintf("Hi %s,\r\n\r\n", summary.RecipientName))
	body.WriteString(fmt.Sprintf("Thank you for your order %s.\r\n", summary.OrderCode))
	body.WriteString(fmt.Sprintf("Products: %d\r\n", summary.ItemCount))
	body.WriteString(fmt.Sprintf("Total: %.0f VND\r\n", summary.TotalMoney))
	body.WriteString(fmt.Sprintf("Payment status: %s\r\n", summary.PaymentStatus))
	body.WriteString("\r\nYour order will be delivered as soon as possible.\r\n")

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(body.String()))
}
