package telegram

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailtony/vidhub/internal/config"
)

func TestSendAlert_NotConfigured(t *testing.T) {
	c := NewClient(&config.Config{})
	assert.False(t, c.IsConfigured())
	assert.NoError(t, c.SendAlert("boom"))
}

func TestSendAlert_PostsMessage(t *testing.T) {
	var gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/bottok/sendMessage", r.URL.Path)
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{TelegramBotToken: "tok", TelegramAdminChatID: "42"})
	c.baseURL = srv.URL

	require.NoError(t, c.SendAlert("primary upload failed"))
	assert.Equal(t, "42", gotChat)
	assert.Contains(t, gotText, "primary upload failed")
}

func TestSendAlert_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{TelegramBotToken: "tok", TelegramAdminChatID: "42"})
	c.baseURL = srv.URL

	assert.Error(t, c.SendAlert("x"))
}
