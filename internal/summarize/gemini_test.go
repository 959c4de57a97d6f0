package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeminiProviderGeneratesContent(t *testing.T) {
	t.Parallel()

	var (
		path string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"## 📌 Key Points\n"},{"text":"- ship it"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	svc := New(Options{Provider: NewGeminiProvider(srv.URL)})
	summary, err := svc.Summarize(context.Background(), "ship it on Friday", "gemini-key")
	require.NoError(t, err)
	require.Equal(t, "## 📌 Key Points\n- ship it", summary)

	require.True(t, strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent"), path)

	system, ok := body["systemInstruction"].(map[string]any)
	require.True(t, ok)
	parts := system["parts"].([]any)
	require.Equal(t, SystemInstruction, parts[0].(map[string]any)["text"])

	generation := body["generationConfig"].(map[string]any)
	require.InDelta(t, 0.3, generation["temperature"], 0.0001)
	require.EqualValues(t, 500, generation["maxOutputTokens"])
}

func TestGeminiProviderWithoutCandidatesFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewGeminiProvider(srv.URL).Complete(context.Background(), Completion{Credential: "k", Model: "gemini-2.5-flash", User: "hi"})
	require.ErrorContains(t, err, "no candidates")
}

func TestGeminiBlankCredentialSurfacesAsProviderFailure(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"unexpected"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(Options{Provider: NewGeminiProvider(srv.URL)}).Summarize(context.Background(), "call the bank", "")
	var summarizeErr *Error
	require.ErrorAs(t, err, &summarizeErr)
	require.True(t, strings.HasPrefix(err.Error(), "summarization failed: "), err.Error())
}
