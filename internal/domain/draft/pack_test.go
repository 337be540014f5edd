package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackAddProduct_OverrideAndDefaultPrice(t *testing.T) {
	d := NewPackDraft(testSnapshot())

	override := dec("20")
	require.NoError(t, d.AddProduct("p1", 3, &override))
	require.NoError(t, d.AddProduct("p2", 1, nil))

	require.Len(t, d.Items, 2)
	assert.True(t, d.Items[0].Overridden)
	assert.True(t, dec("20").Equal(d.Items[0].UnitPrice))
	assert.False(t, d.Items[1].Overridden)
	assert.True(t, dec("20").Equal(d.Items[1].UnitPrice)) // catalog price of p2
}

func TestPackAddProduct_NegativeOverride(t *testing.T) {
	d := NewPackDraft(testSnapshot())

	neg := dec("-1")
	err := d.AddProduct("p1", 1, &neg)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "price_override", vErr.Field)
	assert.Empty(t, d.Items)
}

func TestPackAddProduct_Duplicate(t *testing.T) {
	d := NewPackDraft(testSnapshot())
	require.NoError(t, d.AddProduct("p1", 1, nil))

	var vErr *ValidationError
	require.ErrorAs(t, d.AddProduct("p1", 2, nil), &vErr)
	require.Len(t, d.Items, 1)
}

func TestPackEffectiveBasePrice_DerivedWhenBlank(t *testing.T) {
	d := NewPackDraft(testSnapshot())

	o1 := dec("20")
	require.NoError(t, d.AddProduct("p1", 3, &o1)) // 60
	require.NoError(t, d.AddProduct("p2", 1, nil)) // catalog 20... p2 price is 20

	// Hand-set a line to mirror a 50-priced default item.
	d.Items[1].UnitPrice = dec("50")

	assert.True(t, dec("110").Equal(d.EffectiveBasePrice()), "got %s", d.EffectiveBasePrice())
}

func TestPackEffectiveBasePrice_ExplicitWins(t *testing.T) {
	d := NewPackDraft(testSnapshot())
	require.NoError(t, d.AddProduct("p1", 1, nil))

	d.BasePriceText = "75.50"
	assert.True(t, dec("75.50").Equal(d.EffectiveBasePrice()))

	d.BasePriceText = "not a number"
	assert.True(t, dec("100").Equal(d.EffectiveBasePrice()))

	d.BasePriceText = "-5"
	assert.True(t, dec("100").Equal(d.EffectiveBasePrice()))
}

func TestPackClear(t *testing.T) {
	d := NewPackDraft(testSnapshot())
	require.NoError(t, d.AddProduct("p1", 1, nil))
	d.Name = "Spring promo"
	d.Active = false

	d.Clear()

	assert.Empty(t, d.Items)
	assert.Empty(t, d.Name)
	assert.True(t, d.Active)
	assert.True(t, d.ItemsTotal().IsZero())
}
