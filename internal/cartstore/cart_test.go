package cartstore_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/cartstore"
	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
)

func chokha() domain.Product {
	return domain.Product{
		ID:        "chokha-1",
		Slug:      "chokha-black",
		Name:      "ჩოხა",
		Price:     120,
		ImageURLs: domain.StringList{"/media/products/chokha-1/main.jpg", "/media/products/chokha-1/back.jpg"},
		Sizes:     domain.StringList{"S", "M", "L"},
		Colors:    domain.StringList{"black", "white"},
	}
}

func TestCartScenario(t *testing.T) {
	c := cartstore.OpenCart(cartstore.NewMemoryStorage())
	p := chokha()

	c.Add(p, 1, "L", "black")
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 120.0, c.Subtotal())

	c.Add(p, 2, "L", "black")
	require.Equal(t, 1, c.Len())
	line, ok := c.Line("chokha-1-L-black")
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 360.0, c.Subtotal())

	c.Add(p, 1, "M", "black")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 480.0, c.Subtotal())
	assert.Equal(t, 4, c.TotalItemCount())

	name, removed := c.Remove("chokha-1-L-black")
	assert.True(t, removed)
	assert.Equal(t, "ჩოხა", name)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "120.00", c.SubtotalDecimal().StringFixed(2))
}

func TestLineSnapshot(t *testing.T) {
	c := cartstore.OpenCart(nil)
	p := chokha()
	line := c.Add(p, 1, "", "")

	assert.Equal(t, "chokha-1-no-size-no-color", line.ID)
	assert.Nil(t, line.SelectedSize)
	assert.Nil(t, line.SelectedColor)
	assert.Equal(t, p.ImageURLs[0], line.ImageURL)
	assert.Equal(t, []string{"S", "M", "L"}, line.AvailableSizes)

	// later catalog price changes do not reach the line
	p.Price = 999
	c.Add(p, 1, "", "")
	got, _ := c.Line(line.ID)
	assert.Equal(t, 120.0, got.Price)
	assert.Equal(t, 2, got.Quantity)

	noImage := domain.Product{ID: "belt", Name: "ქამარი", Price: 10}
	assert.Equal(t, domain.PlaceholderImage, c.Add(noImage, 1, "", "").ImageURL)
}

func TestCompositeKeyIdentity(t *testing.T) {
	c := cartstore.OpenCart(nil)
	p := chokha()
	c.Add(p, 1, "S", "black")
	c.Add(p, 1, "M", "black")
	c.Add(p, 1, "M", "white")
	assert.Equal(t, 3, c.Len())

	c.Add(p, 4, "S", "black")
	assert.Equal(t, 3, c.Len())
	l, _ := c.Line(cartstore.LineID("chokha-1", "S", "black"))
	assert.Equal(t, 5, l.Quantity)
}

func TestQuantityFloor(t *testing.T) {
	c := cartstore.OpenCart(nil)
	p := chokha()
	a := c.Add(p, 2, "S", "black")
	b := c.Add(p, 2, "M", "black")

	c.UpdateQuantity(a.ID, 0)
	c.UpdateQuantity(b.ID, -5)
	assert.Equal(t, 0, c.Len())

	d := c.Add(p, 1, "L", "black")
	c.UpdateQuantity(d.ID, 7)
	l, _ := c.Line(d.ID)
	assert.Equal(t, 7, l.Quantity, "update is an absolute set")

	c.UpdateQuantity("missing", 3)
	assert.Equal(t, 1, c.Len())

	_, removed := c.Remove("missing")
	assert.False(t, removed)
}

func TestClear(t *testing.T) {
	s := cartstore.NewMemoryStorage()
	c := cartstore.OpenCart(s)
	c.Add(chokha(), 1, "S", "black")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Subtotal())

	raw, ok, err := s.Load(cartstore.CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(raw))
}

// Random add/update/remove sequences checked against a plain model in cents.
func TestSubtotalMatchesModel(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))
	products := []domain.Product{
		{ID: "chokha-1", Name: "ჩოხა", Price: 120, Sizes: domain.StringList{"S", "M", "L"}},
		{ID: "kaba-2", Name: "კაბა", Price: 89.99, Colors: domain.StringList{"red", "blue"}},
		{ID: "papakha-3", Name: "ფაფახი", Price: 45.5},
		{ID: "scarf-4", Name: "შარფი", Price: 0.1},
	}
	sizes := []string{"", "S", "M", "L"}
	colors := []string{"", "red", "blue"}

	for round := 0; round < 50; round++ {
		c := cartstore.OpenCart(cartstore.NewMemoryStorage())
		model := map[string]int{}
		priceCents := map[string]int64{}

		for step := 0; step < 200; step++ {
			switch r.IntN(3) {
			case 0:
				p := products[r.IntN(len(products))]
				size, color := sizes[r.IntN(len(sizes))], colors[r.IntN(len(colors))]
				qty := 1 + r.IntN(5)
				id := cartstore.LineID(p.ID, size, color)
				c.Add(p, qty, size, color)
				model[id] += qty
				priceCents[id] = decimal.NewFromFloat(p.Price).Shift(2).IntPart()
			case 1:
				lines := c.Lines()
				if len(lines) == 0 {
					continue
				}
				id := lines[r.IntN(len(lines))].ID
				n := r.IntN(8) - 3
				c.UpdateQuantity(id, n)
				if n <= 0 {
					delete(model, id)
				} else {
					model[id] = n
				}
			case 2:
				lines := c.Lines()
				if len(lines) == 0 {
					continue
				}
				id := lines[r.IntN(len(lines))].ID
				c.Remove(id)
				delete(model, id)
			}

			var cents int64
			items := 0
			for id, q := range model {
				cents += priceCents[id] * int64(q)
				items += q
			}
			require.True(t, c.SubtotalDecimal().Equal(decimal.New(cents, -2)),
				"round %d step %d: got %s want %d cents", round, step, c.SubtotalDecimal(), cents)
			require.Equal(t, items, c.TotalItemCount())
			require.Equal(t, len(model), c.Len())
			for _, l := range c.Lines() {
				require.GreaterOrEqual(t, l.Quantity, 1)
			}
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s := cartstore.NewMemoryStorage()
	c := cartstore.OpenCart(s)
	p := chokha()
	c.Add(p, 2, "L", "black")
	c.Add(p, 1, "", "white")
	c.Add(domain.Product{ID: "papakha-3", Name: "ფაფახი", Price: 45.5}, 3, "", "")
	c.UpdateQuantity(cartstore.LineID("chokha-1", "L", "black"), 4)

	reloaded := cartstore.OpenCart(s)
	if diff := cmp.Diff(c.Lines(), reloaded.Lines()); diff != "" {
		t.Fatalf("reloaded cart differs (-before +after):\n%s", diff)
	}
	assert.Equal(t, c.Subtotal(), reloaded.Subtotal())
}

func TestHydrationIsFailSoft(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()

	s := cartstore.NewMemoryStorage()
	require.NoError(t, s.Save(cartstore.CartKey, []byte("{not json")))

	c := cartstore.NewCart(s)
	assert.False(t, c.Initialized())
	c.Hydrate()
	assert.True(t, c.Initialized())
	assert.Equal(t, 0, c.Len())

	_, ok, _ := s.Load(cartstore.CartKey)
	assert.False(t, ok, "corrupt value should be discarded")
	assert.Contains(t, buf.String(), "cartstore.parse.fail")
}

func TestHydrationDropsInvalidLines(t *testing.T) {
	s := cartstore.NewMemoryStorage()
	stored := `[
	  {"id":"x","productId":"chokha-1","name":"ჩოხა","price":120,"quantity":1,"selectedSize":"L","selectedColor":null},
	  {"id":"chokha-1-L-no-color","productId":"chokha-1","name":"ჩოხა","price":120,"quantity":2,"selectedSize":"L","selectedColor":null},
	  {"id":"zero","productId":"kaba-2","name":"კაბა","price":50,"quantity":0},
	  {"id":"orphan","name":"?","price":5,"quantity":1}
	]`
	require.NoError(t, s.Save(cartstore.CartKey, []byte(stored)))

	c := cartstore.OpenCart(s)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "chokha-1-L-no-color", lines[0].ID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestMutationBeforeHydrateKeepsStoredLines(t *testing.T) {
	s := cartstore.NewMemoryStorage()
	first := cartstore.OpenCart(s)
	first.Add(chokha(), 1, "S", "black")

	c := cartstore.NewCart(s)
	c.Add(chokha(), 1, "M", "black")
	assert.True(t, c.Initialized())
	assert.Equal(t, 2, c.Len())
}

type brokenStorage struct{ cartstore.MemoryStorage }

func (*brokenStorage) Save(string, []byte) error { return errors.New("quota exceeded") }

func TestPersistFailureKeepsMutation(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()

	c := cartstore.OpenCart(&brokenStorage{})
	c.Add(chokha(), 2, "S", "black")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 240.0, c.Subtotal())
	assert.True(t, strings.Contains(buf.String(), "cartstore.save.fail"))
}

type unreadableStorage struct{ cartstore.NopStorage }

func (unreadableStorage) Load(string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	restore := applog.SetOutput(&bytes.Buffer{})
	defer restore()

	c := cartstore.OpenCart(unreadableStorage{})
	assert.True(t, c.Initialized())
	assert.Equal(t, 0, c.Len())
}

func TestSeparateStoresAreLastWriteWins(t *testing.T) {
	s := cartstore.NewMemoryStorage()
	a := cartstore.OpenCart(s)
	b := cartstore.OpenCart(s)

	a.Add(chokha(), 1, "S", "black")
	b.Add(chokha(), 1, "M", "black")

	after := cartstore.OpenCart(s)
	require.Equal(t, 1, after.Len())
	assert.Equal(t, "chokha-1-M-black", after.Lines()[0].ID)
}
