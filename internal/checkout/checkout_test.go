package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/pricing"
)

func sampleCart() cart.Cart {
	return cart.Cart{Items: []cart.Item{
		{ProductID: "p1", CartID: "p1-default", Size: "205/55R16", Price: 50, Quantity: 2},
		{ProductID: "p2", CartID: "p2-v1", Size: "31x10.5R15", Price: 0, Quantity: 1, SelectedVariantID: "v1"},
		{ProductID: "p3", CartID: "p3-default", Size: "175/70R13", Price: 49.9, Quantity: 1},
	}}
}

func TestGuestMessageWithPrices(t *testing.T) {
	msg := GuestMessage(sampleCart(), pricing.Presenter{ShowPrices: true, Lang: i18n.Spanish})
	want := "*Nueva Orden de Pedido (Invitado)*\n\n" +
		"- 2x 205/55R16 ($50)\n" +
		"- 1x 31x10.5R15 (Consultar)\n" +
		"- 1x 175/70R13 ($49.9)\n\n" +
		"*Total Estimado: $149.90*"
	assert.Equal(t, want, msg)
}

func TestGuestMessageHiddenPrices(t *testing.T) {
	msg := GuestMessage(sampleCart(), pricing.Presenter{ShowPrices: false, Lang: i18n.English})
	assert.True(t, strings.HasPrefix(msg, "*New Order Request (Guest)*"))
	assert.Contains(t, msg, "- 2x 205/55R16 (Inquire)")
	assert.NotContains(t, msg, "$")
	assert.NotContains(t, msg, "Total")
}

type fakeCreator struct {
	got orders.NewOrder
	err error
}

func (f *fakeCreator) Create(ctx context.Context, in orders.NewOrder) (orders.Order, error) {
	f.got = in
	if f.err != nil {
		return orders.Order{}, f.err
	}
	return orders.Order{ID: "o1", UserID: in.UserID, Items: in.Items, Total: in.Total, Status: orders.StatusPending}, nil
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	creator := &fakeCreator{}
	svc := NewService(creator, nil)
	o, err := svc.PlaceOrder(context.Background(), auth.Identity{UserID: "u1", Name: "Ana"}, sampleCart())
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, "Ana", creator.got.UserName)
	assert.InDelta(t, 149.9, creator.got.Total, 0.0001)

	var items []cart.Item
	require.NoError(t, json.Unmarshal([]byte(creator.got.Items), &items))
	assert.Equal(t, sampleCart().Items, items)
}

func TestPlaceOrderErrors(t *testing.T) {
	svc := NewService(&fakeCreator{}, nil)
	_, err := svc.PlaceOrder(context.Background(), auth.Identity{UserID: "u1"}, cart.Cart{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	boom := errors.New("db down")
	svc = NewService(&fakeCreator{err: boom}, nil)
	_, err = svc.PlaceOrder(context.Background(), auth.Identity{UserID: "u1"}, sampleCart())
	assert.ErrorIs(t, err, boom)
}
