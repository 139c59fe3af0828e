package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRootReportsRunning(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
}

func TestHandleHealthReportsHealthy(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestHandleMethodsListsFiveVariants(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/methods", nil)

	s.Routes().ServeHTTP(rr, req)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body["methods"], 5)
}

func TestHandleStandardBoxesReturnsPresets(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/standard-boxes", nil)

	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "boxes")
}

func packBody() []byte {
	body := map[string]interface{}{
		"pallet": map[string]float64{
			"length": 180, "width": 120, "height": 100, "max_weight": 1000,
		},
		"boxes": []map[string]interface{}{
			{"name": "crate", "length": 40, "width": 30, "height": 20, "weight": 5, "quantity": 1},
		},
		"method": "weight_aware",
	}
	data, _ := json.Marshal(body)
	return data
}

func waitForResult(t *testing.T, s *Server, id string) *httptest.ResponseRecorder {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/result/"+id, nil)
		s.Routes().ServeHTTP(rr, req)
		if rr.Code != http.StatusAccepted {
			return rr
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("result did not become available in time")
	return nil
}

func TestHandlePackSubmitsTaskAndResultBecomesAvailable(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pack", bytes.NewReader(packBody()))

	s.Routes().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp packResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TaskID)

	resultRR := waitForResult(t, s, resp.TaskID)
	assert.Equal(t, http.StatusOK, resultRR.Code)
	assert.Contains(t, resultRR.Body.String(), "packed_items")
}

func TestHandlePackRejectsInvalidBox(t *testing.T) {
	s := NewServer(nil)
	body := map[string]interface{}{
		"pallet": map[string]float64{"length": 180, "width": 120, "height": 100, "max_weight": 1000},
		"boxes": []map[string]interface{}{
			{"name": "huge", "length": 9999, "width": 30, "height": 20, "weight": 5, "quantity": 1},
		},
		"method": "weight_aware",
	}
	data, _ := json.Marshal(body)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pack", bytes.NewReader(data))
	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleStatusReturns404ForUnknownID(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status/does-not-exist", nil)

	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDeleteTaskRemovesRecord(t *testing.T) {
	s := NewServer(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pack", bytes.NewReader(packBody()))
	s.Routes().ServeHTTP(rr, req)

	var resp packResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	waitForResult(t, s, resp.TaskID)

	deleteRR := httptest.NewRecorder()
	deleteReq := httptest.NewRequest(http.MethodDelete, "/task/"+resp.TaskID, nil)
	s.Routes().ServeHTTP(deleteRR, deleteReq)

	assert.Equal(t, http.StatusOK, deleteRR.Code)

	statusRR := httptest.NewRecorder()
	statusReq := httptest.NewRequest(http.MethodGet, "/status/"+resp.TaskID, nil)
	s.Routes().ServeHTTP(statusRR, statusReq)
	assert.Equal(t, http.StatusNotFound, statusRR.Code)
}
