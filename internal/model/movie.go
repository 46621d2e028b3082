package model

import "time"

// Movie represents a crowdfunded film project.  The descriptive fields
// (title, cast and crew) are opaque strings supplied by the creator and
// are not validated.  TotalAmount and StockPrice are fixed at creation;
// InvestedAmount starts at zero and is only ever changed through the
// store's guarded funding increment.
//
// Invariant: 0 <= InvestedAmount <= TotalAmount after every confirmed
// investment.
//
// Fields:
//  ID             – primary key identifier (UUID string).
//  Title          – movie title.
//  Poster         – poster image URL.
//  Director       – director name.
//  Producer       – producer name.
//  Singer         – lead music artist.
//  Hero           – lead actor.
//  Heroine        – lead actress.
//  TotalAmount    – funding target, fixed at creation.
//  InvestedAmount – running total of confirmed investments.
//  StockPrice     – price of one stock unit, fixed at creation.
//  CreatorID      – user ID of the owning creator.
//  CreatedAt      – creation timestamp.
type Movie struct {
	ID             string    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Poster         string    `json:"poster" bson:"poster"`
	Director       string    `json:"director" bson:"director"`
	Producer       string    `json:"producer" bson:"producer"`
	Singer         string    `json:"singer" bson:"singer"`
	Hero           string    `json:"hero" bson:"hero"`
	Heroine        string    `json:"heroine" bson:"heroine"`
	TotalAmount    float64   `json:"total_amount" bson:"total_amount"`
	InvestedAmount float64   `json:"invested_amount" bson:"invested_amount"`
	StockPrice     float64   `json:"stock_price" bson:"stock_price"`
	CreatorID      string    `json:"creator_id" bson:"creator_id"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// AvailableStocks reports how many whole stock units can still be sold
// before the funding target is reached.
func (m Movie) AvailableStocks() int64 {
	if m.StockPrice <= 0 {
		return 0
	}
	remaining := m.TotalAmount - m.InvestedAmount
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / m.StockPrice)
}

// MovieUpdate carries the fields a creator may overwrite after creation.
// Financial fields (total_amount, invested_amount, stock_price) and
// identity fields are not part of the update surface; only the funding
// increment may change InvestedAmount.
type MovieUpdate struct {
	Title    *string `json:"title"`
	Poster   *string `json:"poster"`
	Director *string `json:"director"`
	Producer *string `json:"producer"`
	Singer   *string `json:"singer"`
	Hero     *string `json:"hero"`
	Heroine  *string `json:"heroine"`
}
