package processors

import (
	"time"

	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

// Match pairs a purchase lot with a sale. Purchase and Sale index the
// trade arena of the LotBook that produced it.
type Match struct {
	Purchase           int
	Sale               int
	Quantity           float64
	PurchaseCommission float64 // Part of the lot's commission carried by Quantity
	SaleCommission     float64 // Per-unit sale commission times Quantity
}

// LotBook is the result of matching one ticker group.
type LotBook struct {
	Ticker  string
	Trades  []models.Trade // Arena; quantities are what is left after matching
	Matches []Match
	Open    []int // Arena indices of queued buy lots with quantity left
}

// OpenLots returns the book's leftover buy lots in queue order.
func (b LotBook) OpenLots() []models.OpenLot {
	lots := make([]models.OpenLot, 0, len(b.Open))
	for _, i := range b.Open {
		t := b.Trades[i]
		lots = append(lots, models.OpenLot{
			Ticker:     b.Ticker,
			Operation:  models.OperationBuy,
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			Currency:   t.Currency,
			Date:       t.RawDate,
		})
	}
	return lots
}

// lotMatcher walks one ticker's trades in order. Buys are queued as lots,
// sells consume lots. Trades live in an arena and are only ever addressed by
// index, so a lot split across several matches is always the same record.
type lotMatcher struct {
	dayKey  func(time.Time) string
	trades  []models.Trade
	queue   []int
	matches []Match
}

// MatchLots runs the lot matcher over a ticker group. dayKey decides whether
// two buys happened on the same day and may be merged into one lot.
func MatchLots(group TickerGroup, dayKey func(time.Time) string) LotBook {
	if dayKey == nil {
		dayKey = utils.CanonicalDateKey
	}
	m := &lotMatcher{
		dayKey: dayKey,
		trades: append([]models.Trade(nil), group.Trades...),
	}
	m.run()

	book := LotBook{Ticker: group.Ticker, Trades: m.trades, Matches: m.matches}
	for _, i := range m.queue {
		if m.trades[i].Quantity > 0 {
			book.Open = append(book.Open, i)
		}
	}
	return book
}

func (m *lotMatcher) run() {
	for i := range m.trades {
		t := &m.trades[i]
		switch {
		case t.IsBuy() && t.Quantity > 0:
			m.enqueue(i)
		case t.IsSell() && len(m.queue) > 0:
			m.sellFromQueue(i)
		case t.IsSell():
			m.sellForwardOnce(i)
		}
	}
}

// enqueue adds buy i to the queue, or folds it into a queued lot bought on
// the same day at the same price.
func (m *lotMatcher) enqueue(i int) {
	buy := &m.trades[i]
	key := m.dayKey(buy.Date)
	for _, li := range m.queue {
		lot := &m.trades[li]
		if lot.Price == buy.Price && m.dayKey(lot.Date) == key {
			lot.Quantity += buy.Quantity
			lot.Commission += buy.Commission
			buy.Quantity = 0
			buy.Commission = 0
			return
		}
	}
	m.queue = append(m.queue, i)
}

// sellFromQueue handles a sell while the queue holds lots.
func (m *lotMatcher) sellFromQueue(s int) {
	sell := &m.trades[s]
	if sell.Quantity <= 0 {
		return
	}
	perUnit := sell.Commission / sell.Quantity

	// Full-lot pass: consume, in queue order, every lot the sell can still
	// cover at that point of the scan. Skipped lots are not revisited here.
	for _, li := range m.queue {
		lot := &m.trades[li]
		if lot.Quantity > 0 && lot.Quantity <= sell.Quantity {
			m.match(li, s, lot.Quantity, perUnit)
		}
	}
	m.prune()

	// Partial pass: first queued lot with quantity, else the nearest later buy.
	for sell.Quantity > 0 {
		li, ok := m.firstOpenLot()
		if !ok {
			li, ok = m.nextBuy(s)
		}
		if !ok {
			return
		}
		m.match(li, s, utils.MinFloat(m.trades[li].Quantity, sell.Quantity), perUnit)
	}
}

// sellForwardOnce handles a sell while the queue is empty: one match against
// the nearest later buy, even if the sell is left partly unmatched.
// A sell with no later buy is dropped.
func (m *lotMatcher) sellForwardOnce(s int) {
	sell := &m.trades[s]
	if sell.Quantity <= 0 {
		return
	}
	li, ok := m.nextBuy(s)
	if !ok {
		return
	}
	perUnit := sell.Commission / sell.Quantity
	m.match(li, s, utils.MinFloat(m.trades[li].Quantity, sell.Quantity), perUnit)
}

// match records a match of quantity q and takes q off both trades.
func (m *lotMatcher) match(p, s int, q, perUnitSaleCommission float64) {
	lot := &m.trades[p]
	sell := &m.trades[s]

	commission := lot.Commission
	if q < lot.Quantity {
		commission = lot.Commission * q / lot.Quantity
	}
	lot.Commission -= commission

	m.matches = append(m.matches, Match{
		Purchase:           p,
		Sale:               s,
		Quantity:           q,
		PurchaseCommission: commission,
		SaleCommission:     perUnitSaleCommission * q,
	})

	lot.Quantity -= q
	sell.Quantity -= q
}

// prune drops exhausted lots from the queue.
func (m *lotMatcher) prune() {
	open := m.queue[:0]
	for _, li := range m.queue {
		if m.trades[li].Quantity > 0 {
			open = append(open, li)
		}
	}
	m.queue = open
}

func (m *lotMatcher) firstOpenLot() (int, bool) {
	for _, li := range m.queue {
		if m.trades[li].Quantity > 0 {
			return li, true
		}
	}
	return 0, false
}

// nextBuy returns the nearest buy after position s that still has quantity.
func (m *lotMatcher) nextBuy(s int) (int, bool) {
	for j := s + 1; j < len(m.trades); j++ {
		if m.trades[j].IsBuy() && m.trades[j].Quantity > 0 {
			return j, true
		}
	}
	return 0, false
}
