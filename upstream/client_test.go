package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhung/web-widgets/upstream"
)

func TestFetch(t *testing.T) {
	t.Run("ParsesXMLAndPassesHeaders", func(t *testing.T) {
		var gotHeader string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Publisher")
			_, _ = w.Write([]byte(`<offers><offer><listing_id>1</listing_id></offer></offers>`))
		}))
		defer srv.Close()

		client := upstream.NewClient(time.Second, nil)

		doc, err := client.Fetch(context.Background(), srv.URL, map[string]string{"X-Publisher": "pub1"})
		require.NoError(t, err)
		assert.Equal(t, "pub1", gotHeader)

		root := doc.Root()
		require.NotNil(t, root)
		assert.Equal(t, "offers", root.Tag)
		assert.Len(t, root.SelectElements("offer"), 1)
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := upstream.NewClient(time.Second, nil)

		_, err := client.Fetch(context.Background(), srv.URL, nil)
		require.ErrorIs(t, err, upstream.ErrUnavailable)
	})

	t.Run("TransportError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		srv.Close()

		client := upstream.NewClient(time.Second, nil)

		_, err := client.Fetch(context.Background(), srv.URL, nil)
		require.ErrorIs(t, err, upstream.ErrUnavailable)
	})

	t.Run("MalformedXML", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<offers><offer>`))
		}))
		defer srv.Close()

		client := upstream.NewClient(time.Second, nil)

		_, err := client.Fetch(context.Background(), srv.URL, nil)
		require.ErrorIs(t, err, upstream.ErrMalformed)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := upstream.NewClient(time.Second, nil)

		_, err := client.Fetch(ctx, srv.URL, nil)
		require.ErrorIs(t, err, upstream.ErrUnavailable)
	})
}
