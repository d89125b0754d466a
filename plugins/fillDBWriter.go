package plugins

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/support/logger"
)

const sqlCreateCounterFillsTable = `
CREATE TABLE IF NOT EXISTS counter_fills (
    market_id TEXT NOT NULL,
    txid TEXT NOT NULL,
    order_id TEXT NOT NULL,
    timestamp TIMESTAMP WITHOUT TIME ZONE NOT NULL,
    side TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    volume DOUBLE PRECISION NOT NULL,
    cost DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (market_id, txid)
)`

const sqlInsertCounterFill = `
INSERT INTO counter_fills (market_id, txid, order_id, timestamp, side, price, volume, cost)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (market_id, txid) DO NOTHING`

// FillDBWriter persists settled counter-fills to a postgres database
type FillDBWriter struct {
	db       *sql.DB
	marketID string
	l        logger.Logger
}

// ensure FillDBWriter implements FillHandler
var _ api.FillHandler = &FillDBWriter{}

// ConnectInitializedDatabase opens the postgres database and ensures the schema exists
func ConnectInitializedDatabase(postgresURL string) (*sql.DB, error) {
	db, e := sql.Open("postgres", postgresURL)
	if e != nil {
		return nil, fmt.Errorf("could not open database connection: %s", e)
	}

	_, e = db.Exec(sqlCreateCounterFillsTable)
	if e != nil {
		return nil, fmt.Errorf("could not create counter_fills table: %s", e)
	}
	return db, nil
}

// MakeFillDBWriter is a factory method for FillDBWriter
func MakeFillDBWriter(db *sql.DB, marketID string, l logger.Logger) *FillDBWriter {
	return &FillDBWriter{
		db:       db,
		marketID: marketID,
		l:        l,
	}
}

// HandleFill impl.
func (w *FillDBWriter) HandleFill(trade model.Trade) error {
	txid := ""
	if trade.TransactionID != nil {
		txid = trade.TransactionID.String()
	}

	timestamp := time.Now()
	if trade.Timestamp != nil {
		timestamp = time.Unix(trade.Timestamp.AsInt64()/1000, 0)
	}

	cost := 0.0
	if trade.Cost != nil {
		cost = trade.Cost.AsFloat()
	}

	_, e := w.db.Exec(sqlInsertCounterFill,
		w.marketID,
		txid,
		trade.OrderID,
		timestamp,
		trade.OrderAction.String(),
		trade.Price.AsFloat(),
		trade.Volume.AsFloat(),
		cost,
	)
	if e != nil {
		return fmt.Errorf("could not insert counter fill (marketID=%s, txid=%s): %s", w.marketID, txid, e)
	}

	w.l.Infof("wrote counter fill to db (marketID=%s, txid=%s, orderId=%s)\n", w.marketID, txid, trade.OrderID)
	return nil
}
