package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	apppayment "github.com/aditpras/storefront/application/payment"
	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/constant"
	paygatemocks "github.com/aditpras/storefront/mocks/thirdparty/paygate"
	"github.com/aditpras/storefront/model"
	cerr "github.com/aditpras/storefront/utils/errors"
	validatorx "github.com/aditpras/storefront/utils/validator"
	"github.com/stretchr/testify/mock"
)

// The currency field is optional at the edge so the configured fallback
// stays reachable over HTTP.
func TestPaymentIntentRequest_CurrencyOptional(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.PaymentIntentRequest
		wantErr bool
	}{
		{
			name: "empty currency passes validation",
			req:  &model.PaymentIntentRequest{Amount: 1000},
		},
		{
			name: "three-letter currency passes validation",
			req:  &model.PaymentIntentRequest{Amount: 1000, Currency: "USD"},
		},
		{
			name:    "malformed currency rejected",
			req:     &model.PaymentIntentRequest{Amount: 1000, Currency: "US"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := validatorx.ValidateStruct(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentApp_CreatePaymentIntent(t *testing.T) {
	cfg := &config.Config{
		Payment: config.PaymentConfig{
			MaxAmount: 50000000,
			Currency:  "USD",
		},
	}

	type args struct {
		ctx    context.Context
		userID uint64
		req    *model.PaymentIntentRequest
	}

	tests := []struct {
		name     string
		args     args
		mockCall func(gateway *paygatemocks.Client)
		want     *model.GatewayOrder
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 3875, Currency: "USD"},
			},
			mockCall: func(gateway *paygatemocks.Client) {
				gateway.On("CreateOrder", mock.Anything, int64(3875), "USD", mock.MatchedBy(func(receipt string) bool {
					return strings.HasPrefix(receipt, "rcpt-3-")
				})).Return(&model.GatewayOrder{
					ID:       "gw_order_1",
					Amount:   3875,
					Currency: "USD",
					Receipt:  "rcpt-3-x",
				}, nil).Once()
			},
			want: &model.GatewayOrder{ID: "gw_order_1", Amount: 3875, Currency: "USD", Receipt: "rcpt-3-x"},
		},
		{
			name: "success: falls back to configured currency",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 1000},
			},
			mockCall: func(gateway *paygatemocks.Client) {
				gateway.On("CreateOrder", mock.Anything, int64(1000), "USD", mock.Anything).Return(&model.GatewayOrder{
					ID:       "gw_order_2",
					Amount:   1000,
					Currency: "USD",
				}, nil).Once()
			},
			want: &model.GatewayOrder{ID: "gw_order_2", Amount: 1000, Currency: "USD"},
		},
		{
			name: "success: amount exactly at the ceiling",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 50000000, Currency: "USD"},
			},
			mockCall: func(gateway *paygatemocks.Client) {
				gateway.On("CreateOrder", mock.Anything, int64(50000000), "USD", mock.Anything).Return(&model.GatewayOrder{
					ID:       "gw_order_3",
					Amount:   50000000,
					Currency: "USD",
				}, nil).Once()
			},
			want: &model.GatewayOrder{ID: "gw_order_3", Amount: 50000000, Currency: "USD"},
		},
		{
			name: "error: amount one over the ceiling never reaches the gateway",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 50000001, Currency: "USD"},
			},
			wantErr: true,
			errCode: constant.ErrAmountExceedsLimit,
		},
		{
			name: "error: zero amount",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 0, Currency: "USD"},
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: gateway failure",
			args: args{
				ctx:    context.Background(),
				userID: 3,
				req:    &model.PaymentIntentRequest{Amount: 1000, Currency: "USD"},
			},
			mockCall: func(gateway *paygatemocks.Client) {
				gateway.On("CreateOrder", mock.Anything, int64(1000), "USD", mock.Anything).Return(nil, errors.New("gateway down")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gateway := paygatemocks.NewClient(t)
			if tt.mockCall != nil {
				tt.mockCall(gateway)
			}
			app := apppayment.NewPaymentApp(cfg, gateway)

			got, err := app.CreatePaymentIntent(tt.args.ctx, tt.args.userID, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreatePaymentIntent() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}

			if got.ID != tt.want.ID || got.Amount != tt.want.Amount || got.Currency != tt.want.Currency {
				t.Fatalf("CreatePaymentIntent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
