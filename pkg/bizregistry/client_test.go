package bizregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalInRadius(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storesInRadius", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("serviceKey"))
		// Registry convention: cx is longitude, cy is latitude.
		assert.Equal(t, "126.4500000", r.URL.Query().Get("cx"))
		assert.Equal(t, "36.7800000", r.URL.Query().Get("cy"))
		w.Write([]byte(`{"body":{"totalCount":137,"items":[]}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	n, err := c.TotalInRadius(context.Background(), 36.78, 126.45, 600)
	require.NoError(t, err)
	assert.Equal(t, 137, n)
}

func TestBucketsInRadius(t *testing.T) {
	pages := map[string][]string{
		"1": {"food service", "food service", "retail"},
		"2": {"education"},
		"3": {},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, 0)
		for _, lc := range pages[r.URL.Query().Get("pageNo")] {
			items = append(items, map[string]string{"largeCategoryName": lc})
		}
		resp := map[string]any{"body": map[string]any{"totalCount": 4, "items": items}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	buckets, err := c.BucketsInRadius(context.Background(), 36.78, 126.45, 600, 5)
	require.NoError(t, err)

	// Scanning stops at the first empty page.
	assert.Equal(t, map[string]int64{
		"food service": 2,
		"retail":       1,
		"education":    1,
	}, buckets)
}

func TestBucketsInRadius_RespectsMaxPages(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"body":{"totalCount":9999,"items":[{"largeCategoryName":"retail"}]}}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	_, err := c.BucketsInRadius(context.Background(), 36.78, 126.45, 600, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service key invalid", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL)
	_, err := c.TotalInRadius(context.Background(), 36.78, 126.45, 600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
