package salesapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// wire types mirror the upstream JSON; only the fields the domain reads.
type ordersEnvelope struct {
	Orders []wireOrder `json:"orders"`
}

type wireOrder struct {
	MerchantID  string         `json:"merchantId"`
	OrderID     string         `json:"orderId"`
	OrderNumber string         `json:"orderNumber"`
	CreatedTime *flexTime      `json:"createdTime"`
	State       string         `json:"state"`
	Currency    string         `json:"currency"`
	Total       *int64         `json:"total"`
	LineItems   []wireLineItem `json:"lineItems"`
}

type wireLineItem struct {
	LineItemID string   `json:"lineItemId"`
	Name       string   `json:"name"`
	ItemCode   string   `json:"itemCode"`
	Price      *int64   `json:"price"`
	UnitQty    *float64 `json:"unitQty"`
}

// layouts tried in order for string timestamps; zone-less ones are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// flexTime accepts ISO-8601 strings with or without an offset, or epoch milliseconds.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("parsing epoch millis %s: %w", data, err)
		}
		f.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// decodeOrders parses a raw response body into domain orders.
// Any malformed order fails the whole body.
func decodeOrders(body []byte) ([]entities.Order, error) {
	var env ordersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(env.Orders))
	for i, w := range env.Orders {
		if w.OrderID == "" {
			return nil, fmt.Errorf("order %d: missing orderId", i)
		}
		if w.CreatedTime == nil {
			return nil, fmt.Errorf("order %s: missing createdTime", w.OrderID)
		}

		items := make([]entities.LineItem, len(w.LineItems))
		for j, li := range w.LineItems {
			items[j] = entities.LineItem{
				LineItemID: li.LineItemID,
				Name:       li.Name,
				ItemCode:   li.ItemCode,
				Price:      li.Price,
				UnitQty:    li.UnitQty,
			}
		}

		orders = append(orders, entities.Order{
			MerchantID:  w.MerchantID,
			OrderID:     w.OrderID,
			OrderNumber: w.OrderNumber,
			CreatedTime: w.CreatedTime.Time,
			State:       w.State,
			Currency:    w.Currency,
			Total:       w.Total,
			LineItems:   items,
		})
	}
	return orders, nil
}
