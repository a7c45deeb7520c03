package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/istmoglobal/storefront/internal/shared"
)

// SessionKey stores the cart snapshot in the session.
const SessionKey = "cart"

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 2

// ErrMalformed reports a snapshot that cannot be decoded.
var ErrMalformed = errors.New("cart: malformed snapshot")

type snapshot struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
	Open    bool   `json:"open"`
}

// Migrate decodes a stored snapshot. Version-less arrays of lines keyed
// by product id are upgraded to the current layout.
func Migrate(raw []byte) (Cart, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Cart{}, nil
	}
	if raw[0] == '[' {
		var legacy []Item
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		var c Cart
		for _, it := range legacy {
			if it.ProductID == "" || it.Quantity < 1 {
				continue
			}
			it.SelectedVariantID = ""
			it.CartID = LineID(it.ProductID, "")
			if i := c.index(it.CartID); i >= 0 {
				c.Items[i].Quantity += it.Quantity
				continue
			}
			c.Items = append(c.Items, it)
		}
		return c, nil
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if snap.Version != SnapshotVersion {
		return Cart{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, snap.Version)
	}
	for i := range snap.Items {
		if snap.Items[i].CartID == "" {
			snap.Items[i].CartID = LineID(snap.Items[i].ProductID, snap.Items[i].SelectedVariantID)
		}
	}
	return Cart{Items: snap.Items, Open: snap.Open}, nil
}

func (c *Cart) index(cartID string) int {
	for i := range c.Items {
		if c.Items[i].CartID == cartID {
			return i
		}
	}
	return -1
}

// Load reads the cart from sess.
func Load(sess *shared.Session) (Cart, error) {
	if sess == nil {
		return Cart{}, shared.ErrSessionMissing
	}
	return Migrate([]byte(sess.Get(SessionKey)))
}

// Save writes c to sess in the current layout.
func Save(sess *shared.Session, c Cart) error {
	if sess == nil {
		return shared.ErrSessionMissing
	}
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return sess.SetJSON(SessionKey, snapshot{Version: SnapshotVersion, Items: items, Open: c.Open})
}
