package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: `{"ok":`}, {Text: `true}`}}}}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.GenerateContent(context.Background(), "gemini-3-flash-preview", GenerateRequest{
		Contents:          []Content{{Parts: []Part{{Text: "oi"}}}},
		SystemInstruction: &Content{Parts: []Part{{Text: "sistema"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-3-flash-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "sistema", gotReq.SystemInstruction.Parts[0].Text)
	// Multi-part text concatenates.
	assert.Equal(t, `{"ok":true}`, resp.Text())
}

func TestGenerateContent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.GenerateContent(context.Background(), "m", GenerateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateResponse_InlineData(t *testing.T) {
	resp := &GenerateResponse{Candidates: []Candidate{{Content: Content{Parts: []Part{
		{InlineData: &Blob{MIMEType: "audio/pcm", Data: "QUJD"}},
	}}}}}

	blob, ok := resp.InlineData()
	require.True(t, ok)
	assert.Equal(t, "QUJD", blob.Data)

	empty := &GenerateResponse{}
	_, ok = empty.InlineData()
	assert.False(t, ok)
	assert.Empty(t, empty.Text())
}
