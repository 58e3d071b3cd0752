package adaptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUsecase answers every text frame with the same text.
type echoUsecase struct {
	fakeUsecase
}

func (e *echoUsecase) ServeConn(ctx context.Context, conn *FrameConn) {
	defer conn.Close()
	for {
		text, err := conn.ReadText()
		if err != nil {
			return
		}
		if err := conn.WriteText(text); err != nil {
			return
		}
	}
}

func TestWebSocketHandler_CarriesFrames(t *testing.T) {
	h := NewWebSocketHandler(context.Background(), &echoUsecase{}, nil, 0, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	conn := NewFrameConn(newWSStream(ws), 0)
	defer conn.Close()

	require.NoError(t, conn.WriteText("GET_ROOMS"))
	got, err := conn.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "GET_ROOMS", got)
}

func TestWebSocketHandler_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewWebSocketHandler(context.Background(), &echoUsecase{}, nil, 0, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOriginPolicy(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://chat.example.com/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	same := newOriginPolicy(nil, testLogger())
	assert.True(t, same.check(req("")))
	assert.True(t, same.check(req("http://chat.example.com")))
	assert.False(t, same.check(req("http://evil.example.com")))

	list := newOriginPolicy([]string{"https://App.Example.com", "not a url"}, testLogger())
	assert.True(t, list.check(req("https://app.example.com")))
	assert.False(t, list.check(req("http://chat.example.com")))

	all := newOriginPolicy([]string{"*"}, testLogger())
	assert.True(t, all.check(req("http://anything.test")))
}
