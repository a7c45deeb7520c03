package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/shared"
)

func tire() catalog.Product {
	return catalog.Product{
		ID:      "p1",
		BrandID: "b1",
		Status:  catalog.StatusActive,
		Size:    "205/55R16",
		Price:   89.9,
		Variants: []catalog.Variant{
			{ID: "v1", Size: "205/55R16", Price: 89.9, Status: catalog.StatusActive},
			{ID: "v2", Size: "225/45R17", Price: 120.5, Status: catalog.StatusActive},
		},
	}
}

func TestAddMergesByCartID(t *testing.T) {
	var c Cart
	_, err := c.Add(tire(), "", 1)
	require.NoError(t, err)
	line, err := c.Add(tire(), "", 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "p1-default", line.CartID)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, c.Open)
}

func TestAddVariantOverridesSizeAndPrice(t *testing.T) {
	var c Cart
	_, err := c.Add(tire(), "", 1)
	require.NoError(t, err)
	line, err := c.Add(tire(), "v2", 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "p1-v2", line.CartID)
	assert.Equal(t, "225/45R17", line.Size)
	assert.Equal(t, 120.5, line.Price)
	assert.Equal(t, "v2", line.SelectedVariantID)
}

func TestAddRejects(t *testing.T) {
	var c Cart
	_, err := c.Add(tire(), "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.Add(tire(), "nope", 1)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.True(t, c.Empty())
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	var c Cart
	_, _ = c.Add(tire(), "v1", 1)
	_, _ = c.Add(tire(), "v2", 1)

	require.NoError(t, c.UpdateQuantity("p1-v1", 5))
	item, ok := c.Find("p1-v1")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)

	require.NoError(t, c.UpdateQuantity("p1-v1", 0))
	_, ok = c.Find("p1-v1")
	assert.False(t, ok)

	assert.ErrorIs(t, c.UpdateQuantity("missing", 2), ErrItemNotFound)

	c.Remove("p1-v2")
	assert.True(t, c.Empty())
}

func TestTotal(t *testing.T) {
	c := Cart{Items: []Item{
		{CartID: "a", Price: 0.1, Quantity: 3},
		{CartID: "b", Price: 0, Quantity: 4},
		{CartID: "c", Price: 49.95, Quantity: 2},
	}}
	assert.Equal(t, "100.20", c.Total().StringFixed(2))
	assert.Equal(t, 9, c.Units())

	c.Clear()
	assert.True(t, c.Total().IsZero())
}

func TestMigrateLegacyArray(t *testing.T) {
	raw := `[{"id":"p1","size":"205/55R16","price":89.9,"quantity":2,"variants":[]},
	         {"id":"p1","size":"205/55R16","price":89.9,"quantity":1},
	         {"id":"p2","size":"31x10.5R15","price":140,"quantity":1}]`
	c, err := Migrate([]byte(raw))
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "p1-default", c.Items[0].CartID)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "p2-default", c.Items[1].CartID)
}

func TestMigrateRejects(t *testing.T) {
	for _, raw := range []string{`{"version":1,"items":[]}`, `{not json`, `[1,2]`} {
		_, err := Migrate([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
	c, err := Migrate(nil)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	var c Cart
	_, _ = c.Add(tire(), "v2", 2)
	require.NoError(t, Save(sess, c))
	assert.Contains(t, sess.Get(SessionKey), `"version":2`)

	loaded, err := Load(sess)
	require.NoError(t, err)
	assert.Equal(t, c.Items, loaded.Items)
	assert.True(t, loaded.Open)
}

func TestQuantityLimit(t *testing.T) {
	assert.Equal(t, RetailLineLimit, QuantityLimit(""))
	assert.Equal(t, RetailLineLimit, QuantityLimit(auth.RoleB2C))
	assert.Zero(t, QuantityLimit(auth.RoleB2B))
	assert.Zero(t, QuantityLimit(auth.RoleAdmin))
	assert.True(t, WithinLimit(auth.RoleB2C, 8))
	assert.False(t, WithinLimit(auth.RoleB2C, 9))
	assert.True(t, WithinLimit(auth.RoleB2B, 500))
}
