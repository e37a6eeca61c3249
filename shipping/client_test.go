package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendor struct {
	logins     int32
	tokenSeq   int32
	rejectOnce int32 // reject the first authenticated call with 401
	handlers   map[string]http.HandlerFunc
}

func newFakeVendor(t *testing.T) (*fakeVendor, *httptest.Server) {
	v := &fakeVendor{handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(v.serve))
	t.Cleanup(srv.Close)
	return v, srv
}

func (v *fakeVendor) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/auth/login" {
		atomic.AddInt32(&v.logins, 1)
		// slow login so concurrent callers pile up behind it
		time.Sleep(20 * time.Millisecond)
		var body loginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "ops@example.com" || body.Password != "secret" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Invalid email and password combination"}`))
			return
		}
		seq := atomic.AddInt32(&v.tokenSeq, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + string(rune('0'+seq))})
		return
	}

	if r.Header.Get("Authorization") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if atomic.CompareAndSwapInt32(&v.rejectOnce, 1, 0) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token has expired"}`))
		return
	}
	if h, ok := v.handlers[r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		BaseURL:  srv.URL + "/",
		Email:    "  ops@example.com ",
		Password: "secret\n",
	})
}

func TestConcurrentCallsLoginOnce(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	vendor.handlers["/courier/track/awb/AWB1"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracking_data":{"shipment_status":7}}`))
	}
	client := newTestClient(srv)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.TrackAWB(context.Background(), "AWB1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&vendor.logins))
}

func TestUnauthorizedTriggersSingleReloginAndRetry(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	var calls int32
	vendor.handlers["/courier/generate/label"] = func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"label_created":1,"label_url":"https://cdn.example.com/label.pdf"}`))
	}
	client := newTestClient(srv)

	_, err := client.GenerateLabel(context.Background(), "100")
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&vendor.logins))

	atomic.StoreInt32(&vendor.rejectOnce, 1)
	doc, err := client.GenerateLabel(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/label.pdf", doc.URL())
	assert.Equal(t, int32(2), atomic.LoadInt32(&vendor.logins))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenRefreshedInsideMargin(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	vendor.handlers["/courier/generate/pickup"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pickup_status":1}`))
	}
	client := newTestClient(srv)
	now := time.Now()
	client.now = func() time.Time { return now }

	_, err := client.GeneratePickup(context.Background(), "1")
	require.NoError(t, err)

	// still more than a day of validity left
	now = now.Add(TokenTTL - TokenRefreshMargin - time.Hour)
	_, err = client.GeneratePickup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&vendor.logins))

	now = now.Add(2 * time.Hour)
	_, err = client.GeneratePickup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&vendor.logins))
}

func TestMissingCredentials(t *testing.T) {
	_, srv := newFakeVendor(t)
	client := NewClient(Config{BaseURL: srv.URL, Email: "ops@example.com"})

	_, err := client.TrackAWB(context.Background(), "AWB1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
	assert.Contains(t, err.Error(), "SHIPROCKET_PASSWORD")
	assert.NotContains(t, err.Error(), "SHIPROCKET_EMAIL")
}

func TestLoginFailureSurfacesVendorMessage(t *testing.T) {
	_, srv := newFakeVendor(t)
	client := NewClient(Config{BaseURL: srv.URL, Email: "ops@example.com", Password: "wrong"})

	_, err := client.TrackAWB(context.Background(), "AWB1")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Invalid email and password combination", apiErr.Message)
}

func TestCreateOrderRequestAndResponse(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	var got map[string]interface{}
	vendor.handlers["/orders/create/adhoc"] = func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"order_id":555,"shipment_id":777,"status":"NEW","status_code":1,"awb_code":"","courier_name":""}`))
	}
	client := newTestClient(srv)

	resp, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		OrderID:       "42",
		PaymentMethod: "Prepaid",
		OrderItems:    []OrderItem{{Name: "Watch", SKU: "W-1", Units: 2, SellingPrice: 1499}},
		SubTotal:      2998,
		Weight:        0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "777", resp.ShipmentID.String())
	assert.Equal(t, "555", resp.OrderID.String())
	assert.Equal(t, "1", resp.StatusCode.String())
	assert.Equal(t, "", resp.AWBCode.String())

	assert.Equal(t, "42", got["order_id"])
	assert.Equal(t, "Prepaid", got["payment_method"])
	assert.Equal(t, 2998.0, got["sub_total"])
}

func TestAssignAWBReadsNestedData(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	var body map[string]interface{}
	vendor.handlers["/courier/assign/awb"] = func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"awb_assign_status":1,"response":{"data":{"awb_code":"141123221084922","courier_name":"Delhivery","shipment_id":777}}}`))
	}
	client := newTestClient(srv)

	resp, err := client.AssignAWB(context.Background(), "777", "")
	require.NoError(t, err)
	assert.Equal(t, "141123221084922", resp.AWBCode())
	assert.Equal(t, "Delhivery", resp.CourierName())
	assert.Equal(t, 777.0, body["shipment_id"])
	_, hasCourier := body["courier_id"]
	assert.False(t, hasCourier)
}

func TestAssignAWBWithoutCodeIsError(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	vendor.handlers["/courier/assign/awb"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"awb_assign_status":0,"message":"Courier not serviceable"}`))
	}
	client := newTestClient(srv)

	_, err := client.AssignAWB(context.Background(), "777", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Courier not serviceable")
}

func TestCheckServiceability(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	vendor.handlers["/courier/serviceability/"] = func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "110001", q.Get("pickup_postcode"))
		assert.Equal(t, "560001", q.Get("delivery_postcode"))
		assert.Equal(t, "1", q.Get("cod"))
		assert.Equal(t, "0.5", q.Get("weight"))
		_, _ = w.Write([]byte(`{"status":200,"data":{"available_courier_companies":[{"courier_company_id":10,"courier_name":"Delhivery","estimated_delivery_days":"3","rate":85.5}]}}`))
	}
	client := newTestClient(srv)

	resp, err := client.CheckServiceability(context.Background(), "110001", "560001", 0.5)
	require.NoError(t, err)
	assert.True(t, resp.Serviceable())
	require.Len(t, resp.Data.AvailableCourierCompanies, 1)
	assert.Equal(t, "Delhivery", resp.Data.AvailableCourierCompanies[0].CourierName)
	assert.Equal(t, "10", resp.Data.AvailableCourierCompanies[0].CourierCompanyID.String())
}

func TestAPIErrorMessages(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"Bad pincode"}`, "Bad pincode"},
		{`{"error":"Oops"}`, "Oops"},
		{`{"error":{"message":"Nested"}}`, "Nested"},
		{`{"errors":["a","b"]}`, "a, b"},
		{`{"errors":{"pincode":["invalid"],"phone":["required"]}}`, "phone: required; pincode: invalid"},
		{``, "Unprocessable Entity"},
	}
	for _, tc := range cases {
		err := newAPIError(http.StatusUnprocessableEntity, []byte(tc.body))
		assert.Equal(t, tc.want, err.Message, tc.body)
	}
}

type memoryTokenStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	saves     int
}

func (s *memoryTokenStore) Load(ctx context.Context) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.expiresAt, nil
}

func (s *memoryTokenStore) Save(ctx context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.expiresAt = token, expiresAt
	s.saves++
	return nil
}

func (s *memoryTokenStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.expiresAt = "", time.Time{}
	return nil
}

func TestSharedTokenStoreAvoidsSecondLogin(t *testing.T) {
	vendor, srv := newFakeVendor(t)
	vendor.handlers["/courier/track/awb/X"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}
	store := &memoryTokenStore{}

	first := NewClient(Config{BaseURL: srv.URL, Email: "ops@example.com", Password: "secret", TokenStore: store})
	_, err := first.TrackAWB(context.Background(), "X")
	require.NoError(t, err)

	second := NewClient(Config{BaseURL: srv.URL, Email: "ops@example.com", Password: "secret", TokenStore: store})
	_, err = second.TrackAWB(context.Background(), "X")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&vendor.logins))
	assert.Equal(t, 1, store.saves)
}
