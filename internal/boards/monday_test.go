package boards

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/errors"
)

const mondayItemsReply = `{
  "data": {"boards": [{"items_page": {"items": [
    {"name": "WO-1", "column_values": [
      {"column": {"title": "Sector"}, "text": "Mining"},
      {"column": {"title": "Billed Value in Rupees (Incl of GST.) (Masked)"}, "text": "₹ 600,000"}
    ]},
    {"name": "WO-2", "column_values": [
      {"column": {"title": "Sector"}, "text": null},
      {"column": {"title": "Billed Value in Rupees (Incl of GST.) (Masked)"}, "text": "300000"}
    ]}
  ]}}]}
}`

func newMondayTestSource(url string, timeout time.Duration) *MondaySource {
	return NewMondaySource(config.MondayConfig{
		APIURL:     url,
		APIKey:     "test-token",
		APIVersion: "2024-01",
		PageLimit:  500,
	}, timeout)
}

func TestMondaySource_Fetch(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01", r.Header.Get("API-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req mondayRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, req.Query, "items_page(limit: 500)")
		assert.Equal(t, []interface{}{"5026565302"}, req.Variables["boardId"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, mondayItemsReply)
	}))
	defer srv.Close()

	table, err := newMondayTestSource(srv.URL, time.Second).Fetch(context.Background(), "5026565302")
	require.NoError(t, err)

	assert.Equal(t, "5026565302", table.BoardID)
	assert.Equal(t, []string{"item name", "Sector", "Billed Value in Rupees (Incl of GST.) (Masked)"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "WO-1", table.Rows[0]["item name"])
	assert.Equal(t, "₹ 600,000", table.Rows[0]["Billed Value in Rupees (Incl of GST.) (Masked)"])
	assert.Equal(t, "", table.Rows[1]["Sector"])
}

func TestMondaySource_Failures(t *testing.T) {
	tests := []struct {
		name      string
		handler   nethttp.HandlerFunc
		timeout   time.Duration
		wantEmpty bool
		wantCode  errors.ErrorCode
	}{
		{
			name: "graphql errors give an empty board",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				_, _ = io.WriteString(w, `{"errors":[{"message":"Not Authenticated"}]}`)
			},
			timeout:   time.Second,
			wantEmpty: true,
		},
		{
			name: "no boards gives an empty board",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				_, _ = io.WriteString(w, `{"data":{"boards":[]}}`)
			},
			timeout:   time.Second,
			wantEmpty: true,
		},
		{
			name: "malformed body gives an empty board",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				_, _ = io.WriteString(w, `<html>maintenance</html>`)
			},
			timeout:   time.Second,
			wantEmpty: true,
		},
		{
			name: "wrong shape gives an empty board",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				_, _ = io.WriteString(w, `{"data":{"boards":"none"}}`)
			},
			timeout:   time.Second,
			wantEmpty: true,
		},
		{
			name: "server error",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.WriteHeader(nethttp.StatusInternalServerError)
				_, _ = io.WriteString(w, "boom")
			},
			timeout:  time.Second,
			wantCode: errors.ErrCodeBoardFetchFailed,
		},
		{
			name: "slow server times out",
			handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout:  50 * time.Millisecond,
			wantCode: errors.ErrCodeBoardFetchTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			table, err := newMondayTestSource(srv.URL, tt.timeout).Fetch(context.Background(), "42")
			if tt.wantEmpty {
				require.NoError(t, err)
				assert.True(t, table.IsEmpty())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
