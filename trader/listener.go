package trader

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/quantadex/crossmarket/support/logger"
	"gopkg.in/tomb.v2"
)

const listenerReconnectDelay = 5 * time.Second

// MarketListener subscribes to the home market's websocket stream and converts
// incoming messages into market-update events for a worker.
type MarketListener struct {
	wsURL  string
	market string
	events chan<- Event
	l      logger.Logger
}

// MakeMarketListener is a factory method for MarketListener
func MakeMarketListener(wsURL string, market string, events chan<- Event, l logger.Logger) *MarketListener {
	return &MarketListener{
		wsURL:  wsURL,
		market: market,
		events: events,
		l:      l,
	}
}

// Run consumes the websocket until the tomb dies, reconnecting on any error. A
// dropped connection only delays market-update events; the worker's periodic tick
// still drives checking passes in the meantime.
func (m *MarketListener) Run(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		e := m.consume(t)
		if e != nil {
			m.l.Errorf("market listener disconnected, reconnecting in %s: %s\n", listenerReconnectDelay, e)
		}

		select {
		case <-t.Dying():
			return nil
		case <-time.After(listenerReconnectDelay):
		}
	}
}

func (m *MarketListener) consume(t *tomb.Tomb) error {
	conn, _, e := websocket.DefaultDialer.Dial(m.wsURL, nil)
	if e != nil {
		return errors.Wrap(e, "could not dial home market websocket")
	}
	defer conn.Close()

	e = conn.WriteJSON(&struct {
		Op     string `json:"op"`
		Market string `json:"market"`
	}{
		Op:     "subscribe",
		Market: m.market,
	})
	if e != nil {
		return errors.Wrap(e, "could not subscribe to market updates")
	}
	m.l.Infof("market listener subscribed to %s\n", m.market)

	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		var message struct {
			Market string `json:"market"`
		}
		e = conn.ReadJSON(&message)
		if e != nil {
			return errors.Wrap(e, "could not read market update message")
		}
		if message.Market != m.market {
			continue
		}

		select {
		case m.events <- Event{Type: EventMarketUpdate, At: time.Now()}:
		case <-t.Dying():
			return nil
		default:
			// worker is mid-pass and an update is already queued, drop this one
		}
	}
}
