package http

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/despacholink/expediente/internal/expediente/feed"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// FeedHandler streams the firm's case-file change feed over a websocket so
// the dashboard list updates without polling.
type FeedHandler struct {
	Feed *feed.Bus
}

// ServeHTTP handles GET /api/feed
//
//	@Summary		Live case file feed
//	@Description	Upgrades to a websocket and streams client change events for the signed-in firm.
//	@Tags			Feed
//	@Success		101	"Switching protocols"
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Not signed in"
//	@Router			/api/feed [get].
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := h.Feed.Subscribe(id, 64)
	defer sub.Close()

	// Drain client frames only to notice disconnects.
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case <-readErr:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case evt, ok := <-sub.C():
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closed")
				return
			}
			msg := portalsdk.FeedEvent{Type: evt.Type, ClientID: evt.ClientID, At: evt.At}
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return
			}
		}
	}
}
