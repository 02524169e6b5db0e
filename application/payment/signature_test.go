package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/aditpras/storefront/application/payment"
)

func hmacHex(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-secret"
	valid := hmacHex("gw_order_1|gw_pay_1", secret)

	tests := []struct {
		name             string
		gatewayOrderID   string
		gatewayPaymentID string
		signature        string
		secret           string
		want             bool
	}{
		{
			name:             "valid signature",
			gatewayOrderID:   "gw_order_1",
			gatewayPaymentID: "gw_pay_1",
			signature:        valid,
			secret:           secret,
			want:             true,
		},
		{
			name:             "payment id swapped",
			gatewayOrderID:   "gw_order_1",
			gatewayPaymentID: "gw_pay_2",
			signature:        valid,
			secret:           secret,
			want:             false,
		},
		{
			name:             "order id swapped",
			gatewayOrderID:   "gw_order_2",
			gatewayPaymentID: "gw_pay_1",
			signature:        valid,
			secret:           secret,
			want:             false,
		},
		{
			name:             "wrong secret",
			gatewayOrderID:   "gw_order_1",
			gatewayPaymentID: "gw_pay_1",
			signature:        valid,
			secret:           "other-secret",
			want:             false,
		},
		{
			name:             "empty order id",
			gatewayOrderID:   "",
			gatewayPaymentID: "gw_pay_1",
			signature:        hmacHex("|gw_pay_1", secret),
			secret:           secret,
			want:             false,
		},
		{
			name:             "empty payment id",
			gatewayOrderID:   "gw_order_1",
			gatewayPaymentID: "",
			signature:        hmacHex("gw_order_1|", secret),
			secret:           secret,
			want:             false,
		},
		{
			name:             "empty signature",
			gatewayOrderID:   "gw_order_1",
			gatewayPaymentID: "gw_pay_1",
			signature:        "",
			secret:           secret,
			want:             false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := payment.VerifySignature(tt.gatewayOrderID, tt.gatewayPaymentID, tt.signature, tt.secret)
			if got != tt.want {
				t.Fatalf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifySignatureSingleCharacterMutation(t *testing.T) {
	const secret = "test-secret"
	valid := hmacHex("gw_order_1|gw_pay_1", secret)

	for i := 0; i < len(valid); i++ {
		mutated := []byte(valid)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		if payment.VerifySignature("gw_order_1", "gw_pay_1", string(mutated), secret) {
			t.Fatalf("mutated signature at index %d accepted", i)
		}
	}
}
