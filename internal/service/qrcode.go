package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"pos-order-core/internal/domain"
)

// PaymentQR renders payment QR codes. With an endpoint configured it defers
// to the external image-rendering service keyed by payee and amount; the
// URL is a pure function of those two inputs. Without one it encodes the
// same payload locally.
type PaymentQR struct {
	RenderEndpoint string
}

func (q PaymentQR) ImageURL(payeeID string, amount domain.Amount) string {
	if q.RenderEndpoint == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s.png?amount=%s",
		strings.TrimRight(q.RenderEndpoint, "/"), url.PathEscape(payeeID), amount.String())
}

func (q PaymentQR) ImagePNG(payeeID string, amount domain.Amount) ([]byte, error) {
	payload := fmt.Sprintf("promptpay:%s?amount=%s", payeeID, amount.String())
	return qrcode.Encode(payload, qrcode.Medium, 256)
}
