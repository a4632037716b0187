// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	level      string
	loggedData []any
}

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.level = "info"
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.level = "warn"
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) value(key string) any {
	for i := 0; i+1 < len(m.loggedData); i += 2 {
		if m.loggedData[i] == key {
			return m.loggedData[i+1]
		}
	}
	return nil
}

func TestRequestLoggerHandler(t *testing.T) {
	logger := &mockLogger{}

	handler := RequestLoggerMiddleware(logger, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/transactions?x=1", strings.NewReader(`{"raw":"0x01"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "info", logger.level)
	assert.Equal(t, "/transactions?x=1", logger.value("uri"))
	assert.Equal(t, http.MethodPost, logger.value("method"))
	assert.Equal(t, `{"raw":"0x01"}`, logger.value("body"))
	assert.NotNil(t, logger.value("durationMs"))
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	logger := &mockLogger{}
	long := strings.Repeat("a", maxLoggedBody*2)

	var seen string
	handler := RequestLoggerMiddleware(logger, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, err := buf.ReadFrom(r.Body)
		assert.NoError(t, err)
		seen = buf.String()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(long)))

	assert.Equal(t, long, seen)
	assert.Len(t, logger.value("body"), maxLoggedBody)
}

func TestSlowRequest(t *testing.T) {
	logger := &mockLogger{}

	handler := RequestLoggerMiddleware(logger, time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/staking/state", nil))
	assert.Equal(t, "warn", logger.level)

	fast := &mockLogger{}
	handler = RequestLoggerMiddleware(fast, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/staking/state", nil))
	assert.Equal(t, "info", fast.level)
}

func TestRequestLoggerOversizedBody(t *testing.T) {
	logger := &mockLogger{}
	called := false
	handler := RequestLoggerMiddleware(logger, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(strings.Repeat("a", 64)))
	req.Body = http.MaxBytesReader(rr, req.Body, 16)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.False(t, called)
}
