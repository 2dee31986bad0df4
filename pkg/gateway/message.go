package gateway

import (
	"context"
)

// Control message types accepted by the gateway.
const (
	// MsgSkipWaiting forces a waiting gateway to activate immediately,
	// letting users opt into an update without closing every open tab.
	MsgSkipWaiting = "SKIP_WAITING"

	// MsgGetVersion asks for the current cache version tag.
	MsgGetVersion = "GET_VERSION"
)

// Message is an out-of-band control message from a page context.
type Message struct {
	// Type selects the command.
	Type string

	// ReplyTo, if set, receives replies for query-type messages.
	// The channel should be buffered; the gateway sends at most once
	// per message and does not wait for a receiver beyond that send.
	ReplyTo chan<- Reply
}

// Reply is the answer to a query-type control message.
type Reply struct {
	Version string `json:"version"`
}

// OnMessage handles a control message. Unrecognized types are logged and
// ignored; they are not an error.
func (g *Gateway) OnMessage(ctx context.Context, msg Message) {
	switch msg.Type {
	case MsgSkipWaiting:
		if g.Phase() != PhaseWaiting {
			g.logger.Debug().
				Str("phase", g.Phase().String()).
				Msg("SKIP_WAITING ignored - gateway not waiting")
			return
		}
		if err := g.Activate(ctx); err != nil {
			g.logger.Warn().Err(err).Msg("SKIP_WAITING activation failed")
			return
		}
		g.logger.Info().Msg("Activated via SKIP_WAITING")

	case MsgGetVersion:
		if msg.ReplyTo != nil {
			msg.ReplyTo <- Reply{Version: g.Version()}
		}

	default:
		g.logger.Warn().
			Str("type", msg.Type).
			Msg("Ignoring unrecognized control message")
	}
}
