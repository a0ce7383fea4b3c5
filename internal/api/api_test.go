package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/matzehuels/digibouquet/pkg/codec"
	"github.com/matzehuels/digibouquet/pkg/errors"
	"github.com/matzehuels/digibouquet/pkg/observability"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/share"
	"github.com/matzehuels/digibouquet/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	handler http.Handler
	store   *store.MemoryStore
	metrics *Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore()
	svc := share.New(st, nil, share.WithBaseURL("https://bouquet.test"), share.WithLogger(logger))
	metrics := NewMetrics("digibouquet")
	metrics.Register()
	t.Cleanup(observability.Reset)

	srv := New(Config{DefaultStyle: pipeline.StyleSimple, MaxBodyBytes: 4 << 10}, svc, logger, metrics)
	return &fixture{handler: srv.Handler(), store: st, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func draftBody() map[string]any {
	return map[string]any{
		"senderName":   "Ana",
		"receiverName": "Ben",
		"message":      "Happy birthday!",
		"bouquet": map[string]any{
			"flowers":  map[string]int{"roses": 2, "tulips": 2, "daisies": 2},
			"seed":     11,
			"greenery": "classic",
		},
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Version)
}

func TestFlowers(t *testing.T) {
	f := newFixture(t)

	all := decode[flowersResponse](t, f.do(t, http.MethodGet, "/api/v1/flowers", nil))
	assert.NotEmpty(t, all.Flowers)
	assert.Equal(t, "roses", all.Default)
	assert.Equal(t, 6, all.MinFlowers)
	assert.Equal(t, 10, all.MaxFlowers)

	some := decode[flowersResponse](t, f.do(t, http.MethodGet, "/api/v1/flowers?q=tul", nil))
	require.Len(t, some.Flowers, 1)
	assert.Equal(t, "tulips", some.Flowers[0].Key)
}

func TestCreateAndGetBouquet(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/bouquets/", draftBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[bouquetResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "https://bouquet.test/bouquet/"+created.ID, created.URL)
	assert.Equal(t, created.URL, rec.Header().Get("Location"))
	assert.Contains(t, created.ShareText, "Ana sent a digital bouquet to Ben")
	assert.True(t, strings.HasPrefix(created.WhatsAppURL, "https://wa.me/?text="))
	assert.Equal(t, 1, f.store.Len())

	rec = f.do(t, http.MethodGet, "/api/v1/bouquets/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[bouquetResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Happy birthday!", got.Bouquet.Message)
	assert.Equal(t, 6, got.Bouquet.Spec.Total())
	assert.Len(t, got.Bouquet.Layout.Flowers, 6)
}

func TestCreateBouquetRejects(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed json", `{"senderName":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"sender":"Ana"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"too few flowers", map[string]any{
			"senderName": "Ana", "receiverName": "Ben", "message": "hi",
			"bouquet": map[string]any{"flowers": map[string]int{"roses": 2}},
		}, http.StatusBadRequest, "INVALID_SELECTION"},
		{"missing sender", func() map[string]any {
			b := draftBody()
			b["senderName"] = "   "
			return b
		}(), http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", `{"message":"` + strings.Repeat("x", 8<<10) + `"}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodPost, "/api/v1/bouquets/", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[errorBody](t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Zero(t, f.store.Len())
		})
	}
}

func TestGetBouquetNotFound(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"0123456789ab", "nope", "bad!id"} {
		rec := f.do(t, http.MethodGet, "/api/v1/bouquets/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		body := decode[errorBody](t, rec)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.Equal(t, "This bouquet may have been removed or the link is incorrect.", body.Error.Message)
	}
}

func TestBouquetImage(t *testing.T) {
	f := newFixture(t)
	created := decode[bouquetResponse](t, f.do(t, http.MethodPost, "/api/v1/bouquets/", draftBody()))

	rec := f.do(t, http.MethodGet, "/api/v1/bouquets/"+created.ID+"/image.svg", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Happy birthday!")

	rec = f.do(t, http.MethodGet, "/api/v1/bouquets/"+created.ID+"/image.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	rec = f.do(t, http.MethodGet, "/api/v1/bouquets/"+created.ID+"/image.gif", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decode[errorBody](t, rec).Error.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/bouquets/"+created.ID+"/image.svg?style=watercolor", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STYLE", decode[errorBody](t, rec).Error.Code)
}

func TestLinks(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/links/", draftBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	link := decode[linkResponse](t, rec)
	require.NotEmpty(t, link.Token)
	assert.Equal(t, "https://bouquet.test/b/"+link.Token, link.URL)
	assert.Zero(t, f.store.Len(), "links are not stored")

	rec = f.do(t, http.MethodGet, "/api/v1/links/"+link.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[bouquetResponse](t, rec)
	assert.Empty(t, got.ID)
	assert.Equal(t, "Ana", got.Bouquet.SenderName)
	assert.Equal(t, link.URL, got.URL)

	rec = f.do(t, http.MethodGet, "/api/v1/links/"+link.Token+"/image.svg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = f.do(t, http.MethodGet, "/api/v1/links/not-a-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkTokenDecodesWithCodec(t *testing.T) {
	f := newFixture(t)
	link := decode[linkResponse](t, f.do(t, http.MethodPost, "/api/v1/links/", draftBody()))

	decoded, err := codec.DecodeLink(link.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ben", decoded.ReceiverName)
	assert.Equal(t, int64(11), decoded.Spec.Seed)
}

func TestLayoutEndpoint(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{
		"bouquet": map[string]any{"flowers": map[string]int{"lily": 3}, "seed": 5},
		"width":   300,
		"height":  400,
	}

	rec := f.do(t, http.MethodPost, "/api/v1/layouts", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	first := decode[layoutResponse](t, rec)
	assert.Len(t, first.Layout.Flowers, 3)
	assert.Equal(t, 300.0, first.Layout.Width)
	assert.NotEmpty(t, first.SpecHash)

	second := decode[layoutResponse](t, f.do(t, http.MethodPost, "/api/v1/layouts", body))
	assert.Equal(t, first, second, "layouts are deterministic")

	rec = f.do(t, http.MethodPost, "/api/v1/layouts", map[string]any{
		"bouquet": map[string]any{"flowers": map[string]int{"roses": 11}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderEndpoint(t *testing.T) {
	f := newFixture(t)
	spec := map[string]any{"flowers": map[string]int{"sunflowers": 2}, "seed": 3}

	tests := []struct {
		name        string
		body        map[string]any
		status      int
		contentType string
	}{
		{"default svg", map[string]any{"bouquet": spec}, http.StatusOK, "image/svg+xml"},
		{"json", map[string]any{"bouquet": spec, "format": "json"}, http.StatusOK, "application/json"},
		{"dot", map[string]any{"bouquet": spec, "format": "dot"}, http.StatusOK, "text/vnd.graphviz"},
		{"two formats", map[string]any{"bouquet": spec, "formats": []string{"svg", "json"}}, http.StatusBadRequest, "application/json"},
		{"bad style", map[string]any{"bouquet": spec, "style": "crayon"}, http.StatusBadRequest, "application/json"},
		{"empty bouquet", map[string]any{"bouquet": map[string]any{}}, http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/render", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestUnknownRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v2/flowers", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, rec).Error.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/flowers", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/v1/bouquets/", draftBody())
	f.do(t, http.MethodGet, "/api/v1/bouquets/0123456789ab", nil)

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Regexp(t, `digibouquet_http_requests_total\{method="POST",route="/api/v1/bouquets/?",status="201"\} 1`, out)
	assert.Contains(t, out, `digibouquet_store_operations_total{backend="memory",operation="create",status="ok"} 1`)
	assert.Contains(t, out, `digibouquet_store_operations_total{backend="memory",operation="fetch",status="not_found"} 1`)
	assert.Contains(t, out, "digibouquet_layouts_total")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_INPUT", http.StatusBadRequest},
		{"INVALID_SELECTION", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"INVALID_PAYLOAD", http.StatusNotFound},
		{"STORAGE_ERROR", http.StatusServiceUnavailable},
		{"UNSUPPORTED", http.StatusNotImplemented},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var err error = io.EOF
			if tt.code != "" {
				err = errors.New(errors.Code(tt.code), "boom")
			}
			assert.Equal(t, tt.want, statusFor(err))
		})
	}
}

func TestServeShutsDown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	svc := share.New(store.NewMemoryStore(), nil, share.WithLogger(logger))
	srv := New(Config{ShutdownTimeout: time.Second}, svc, logger, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "no metrics without a collector")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
