package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soratech/storefront/internal/config"
)

func TestSendSkippedWhenUnconfigured(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	r := NewRelay(&config.Config{}, nil)
	r.endpoint = srv.URL

	require.NoError(t, r.SendOrderReceipt(context.Background(), "a@b.ru", "ORD-1", 100))
	require.False(t, called)
}

func TestSendOrderReceiptPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRelay(&config.Config{
		EMAILJS_SERVICE_ID:        "svc",
		EMAILJS_PUBLIC_KEY:        "pub",
		EMAILJS_ORDER_TEMPLATE_ID: "tpl_order",
	}, nil)
	r.endpoint = srv.URL

	require.NoError(t, r.SendOrderReceipt(context.Background(), "a@b.ru", "ORD-42", 1549.5))

	require.Equal(t, "svc", got["service_id"])
	require.Equal(t, "tpl_order", got["template_id"])
	require.Equal(t, "pub", got["user_id"])

	params := got["template_params"].(map[string]any)
	require.Equal(t, "a@b.ru", params["to_email"])
	require.Equal(t, "ORD-42", params["order_number"])
	require.Equal(t, "1549.50", params["total_amount"])
}

func TestSendSurfacesRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	r := NewRelay(&config.Config{
		EMAILJS_SERVICE_ID:        "svc",
		EMAILJS_PUBLIC_KEY:        "pub",
		EMAILJS_RESET_TEMPLATE_ID: "tpl_reset",
	}, nil)
	r.endpoint = srv.URL

	err := r.SendResetCode(context.Background(), "a@b.ru", "123456")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
