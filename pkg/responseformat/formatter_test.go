package responseformat

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Period string   `json:"period"`
	Value  *float64 `json:"value"`
}

func TestWriteResponseJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/indices/CZI", nil)

	err := NewFormatter().WriteResponse(rec, req, http.StatusOK, []sample{
		{Period: "2000-01", Value: Float(math.NaN())},
		{Period: "2000-02", Value: Float(-0.5)},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"period":"2000-01","value":null},{"period":"2000-02","value":-0.5}]`, rec.Body.String())
}

func TestWriteResponseMsgPack(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/indices/CZI?format=msgpack", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, sample{Period: "2000", Value: Float(1.25)}))
	assert.Equal(t, ContentTypeMsgPack, rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2000", got["period"])
	assert.Equal(t, 1.25, got["value"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, NewFormatter().WriteError(rec, req, http.StatusBadRequest, "unknown index"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown index", body.Error)
}

func TestWantsMsgPackFromAccept(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"application/json", false},
		{"*/*", false},
		{ContentTypeMsgPack, true},
		{"application/msgpack", true},
		{"application/x-msgpack, */*", true},
		{"text/html, application/msgpack;q=0.9", true},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, WantsMsgPack(req))
		})
	}
}
