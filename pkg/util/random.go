package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderCode produces a public-facing order code such as
// ORD-LQ3F9A-7C2D. The time part keeps codes roughly sortable, the
// random part makes them unguessable.
func GenerateOrderCode() string {
	timePart := strings.ToUpper(fmt.Sprintf("%x", time.Now().UnixMilli()))
	randomPart := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%s-%s", timePart, randomPart)
}

// GenerateTxnRef produces a unique reference for a payment-gateway
// transaction.
func GenerateTxnRef() string {
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
