package server

import (
	"fed_core/logic"
	"fed_core/shared"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"net/http"
	"slices"
	"strconv"
	"time"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// Serves users' notification streams over websockets.
type streamHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	notifier logic.INotifier
	upgrader websocket.Upgrader
}

func NewStreamHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	notifier logic.INotifier,
) IHandlerGroup {
	res := streamHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 10,
			WriteBufferSize: 1 << 12,
		},
	}
	return &res
}

func (hg *streamHandlerGroup) Prefix() string {
	return "/api/streaming"
}

func (hg *streamHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/users/{id}/inbox", func(w http.ResponseWriter, r *http.Request) { hg.getInboxStream(w, r) }},
	}
}

func (hg *streamHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hg.authMW(next)
	}
}

func (hg *streamHandlerGroup) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var apiKey = r.Header.Get(apiKeyHeader)
		if apiKey == "" || !slices.Contains(hg.cfg.Secrets.ApiKeys, apiKey) {
			keyPart := apiKey
			if len(apiKey) > 4 {
				keyPart = apiKey[:4] + "..."
			}
			hg.logger.Warnf("API request with missing or invalid key '%s': %s", keyPart, r.URL.Path)
			writeErrorResponse(w, badApiKeyStr, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hg *streamHandlerGroup) getInboxStream(w http.ResponseWriter, r *http.Request) {

	userId, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return
	}

	conn, err := hg.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		hg.logger.Infof("Failed to upgrade inbox stream request: %v", err)
		return
	}
	defer conn.Close()

	group := fmt.Sprintf("user.%d.inbox", userId)
	events, unsubscribe := hg.notifier.Subscribe(group)
	defer unsubscribe()
	hg.logger.Infof("Client subscribed to %s", group)

	// The client never talks to us, but reading is how we notice it went away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err = conn.WriteJSON(evt); err != nil {
				hg.logger.Infof("Failed to write to stream %s: %v", group, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			hg.logger.Infof("Client left %s", group)
			return
		}
	}
}
