package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// DealInput is everything needed to value one match.
type DealInput struct {
	Ticker             string
	Quantity           float64
	PurchasePrice      float64
	PurchaseCommission float64
	PurchaseDate       time.Time
	PurchaseRate       float64
	SalePrice          float64
	SaleCommission     float64
	SaleDate           time.Time
	SaleRate           float64
}

// ComputeDeal values a match in local currency.
//
// A zero commission on either leg is replaced by that leg's principal. The
// sale commission is added to the cost side at the sale rate. Percent is not
// guarded: a zero cost basis yields NaN or ±Inf.
func ComputeDeal(in DealInput) models.MatchedDeal {
	purchaseSum := in.PurchasePrice * in.Quantity
	purchaseCommission := in.PurchaseCommission
	if purchaseCommission == 0 {
		purchaseCommission = purchaseSum
	}
	saleSum := in.SalePrice * in.Quantity
	saleCommission := in.SaleCommission
	if saleCommission == 0 {
		saleCommission = saleSum
	}

	purchaseUAH := (purchaseSum+purchaseCommission)*in.PurchaseRate + saleCommission*in.SaleRate
	saleUAH := saleSum * in.SaleRate

	return models.MatchedDeal{
		Ticker:   in.Ticker,
		Quantity: in.Quantity,
		Purchase: models.DealLeg{
			Price:      in.PurchasePrice,
			Commission: purchaseCommission,
			Date:       in.PurchaseDate,
			Rate:       in.PurchaseRate,
			Sum:        purchaseSum,
			UAH:        purchaseUAH,
		},
		Sale: models.DealLeg{
			Price:      in.SalePrice,
			Commission: saleCommission,
			Date:       in.SaleDate,
			Rate:       in.SaleRate,
			Sum:        saleSum,
			UAH:        saleUAH,
		},
		Total:   saleUAH - purchaseUAH,
		Percent: models.Percent(saleUAH/purchaseUAH - 1),
	}
}

// DealValuator resolves the rates of a match and values it.
type DealValuator struct {
	converter CurrencyConverter
}

func NewDealValuator(converter CurrencyConverter) *DealValuator {
	return &DealValuator{converter: converter}
}

// Value resolves the purchase-date and sale-date rates together and values
// the match. If either lookup fails no deal is produced.
func (v *DealValuator) Value(ctx context.Context, book LotBook, m Match) (models.MatchedDeal, error) {
	purchase := book.Trades[m.Purchase]
	sale := book.Trades[m.Sale]

	legs := [2]models.Trade{purchase, sale}
	var rates [2]float64
	err := joinAll(ctx, len(legs), func(ctx context.Context, i int) error {
		rate, err := resolveRate(ctx, v.converter, legs[i].Currency, legs[i].Date)
		if err != nil {
			return err
		}
		rates[i] = rate
		return nil
	})
	if err != nil {
		return models.MatchedDeal{}, fmt.Errorf("valuing %s deal: %w", book.Ticker, err)
	}

	return ComputeDeal(DealInput{
		Ticker:             book.Ticker,
		Quantity:           m.Quantity,
		PurchasePrice:      purchase.Price,
		PurchaseCommission: m.PurchaseCommission,
		PurchaseDate:       purchase.Date,
		PurchaseRate:       rates[0],
		SalePrice:          sale.Price,
		SaleCommission:     m.SaleCommission,
		SaleDate:           sale.Date,
		SaleRate:           rates[1],
	}), nil
}
