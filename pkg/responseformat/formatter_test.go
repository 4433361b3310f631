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

type reading struct {
	Name  string   `json:"name"`
	Value Number   `json:"value"`
	Trend []Number `json:"trend"`
}

func TestWriteResponseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()

	data := reading{Name: "PM2.5", Value: Number(math.NaN()), Trend: Numbers([]float64{1.5, math.Inf(1), 2})}
	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, data))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"name":"PM2.5","value":null,"trend":[1.5,null,2]}`, rec.Body.String())

	var back reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &back))
	assert.False(t, back.Value.Valid())
	assert.Equal(t, Number(1.5), back.Trend[0])
}

func TestWriteResponseMsgPack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/summary?format=msgpack", nil)
	rec := httptest.NewRecorder()

	data := reading{Name: "CO", Value: 700, Trend: Numbers([]float64{math.NaN(), 3})}
	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, data))
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	var back reading
	dec := msgpack.NewDecoder(rec.Body)
	dec.SetCustomStructTag("json")
	require.NoError(t, dec.Decode(&back))
	assert.Equal(t, "CO", back.Name)
	assert.Equal(t, Number(700), back.Value)
	assert.False(t, back.Trend[0].Valid())
	assert.Equal(t, Number(3), back.Trend[1])
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/summary?year=1999", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, NewFormatter().WriteError(rec, req, http.StatusBadRequest, "unknown year 1999"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unknown year 1999"}`, rec.Body.String())
}
