package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiflisi/internal/domain"
	"tiflisi/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestProductFilters(t *testing.T) {
	r := repos.NewProductRepo(memdb(t))

	all, err := r.List(repos.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, "kids-chokha-1", all[0].ID, "newest first by default")

	byName, err := r.List(repos.ProductFilter{Q: "ჩოხა", Sort: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kids-chokha-1", "chokha-1"}, ids(byName))

	// description match
	silk, err := r.List(repos.ProductFilter{Q: "აბრეშუმის"})
	require.NoError(t, err)
	assert.Equal(t, []string{"scarf-1"}, ids(silk))

	women, err := r.List(repos.ProductFilter{Gender: "women", Sort: "price-desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kaba-1", "scarf-1"}, ids(women))

	acc, err := r.List(repos.ProductFilter{Category: "აქსესუარები", Sort: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"scarf-1", "papakha-1"}, ids(acc))

	page, err := r.List(repos.ProductFilter{Sort: "price-asc", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"tshirt-1", "papakha-1"}, ids(page))
}

func TestProductCRUD(t *testing.T) {
	r := repos.NewProductRepo(memdb(t))

	p, err := r.BySlug("chokha-black")
	require.NoError(t, err)
	assert.Equal(t, "chokha-1", p.ID)
	assert.Equal(t, 120.0, p.Price)
	assert.Equal(t, domain.StringList{"S", "M", "L", "XL"}, p.Sizes)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	n := domain.Product{
		ID: "belt-1", Slug: "belt", Name: "ქამარი", Price: 25.5,
		Category: "აქსესუარები", Stock: 2,
	}
	require.NoError(t, r.Create(n))
	got, err := r.Get("belt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{}, got.Sizes, "nil lists are stored as []")
	assert.NotEmpty(t, got.CreatedAt)

	got.Price = 30
	got.Colors = domain.StringList{"brown"}
	require.NoError(t, r.Update(got))
	again, _ := r.Get("belt-1")
	assert.Equal(t, 30.0, again.Price)
	assert.True(t, again.HasColor("brown"))
	assert.NotEmpty(t, again.UpdatedAt)

	taken, err := r.SlugTaken("belt", "other")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, _ = r.SlugTaken("belt", "belt-1")
	assert.False(t, taken)

	require.NoError(t, r.Delete("belt-1"))
	assert.ErrorIs(t, r.Delete("belt-1"), repos.ErrNotFound)
}

func TestCategoriesAndInventory(t *testing.T) {
	db := memdb(t)
	cats, err := repos.NewCategoryRepo(db).List()
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	inv := repos.NewInventoryRepo(db)
	q, err := inv.Qty("kaba-1")
	require.NoError(t, err)
	assert.Equal(t, 3, q)
	_, err = inv.Qty("missing")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	require.NoError(t, inv.SetQty("kaba-1", 9))
	q, _ = inv.Qty("kaba-1")
	assert.Equal(t, 9, q)

	low, err := inv.LowStock(5)
	require.NoError(t, err)
	assert.Equal(t, "papakha-1", low[0].ProductID)
}

func sampleOrder(id, sid, uid string, status domain.OrderStatus) *domain.Order {
	size := "L"
	return &domain.Order{
		ID: id, SessionID: sid, UserID: uid,
		CustomerName: "ნინო ბერიძე", CustomerEmail: "nino@tiflisi.ge",
		Status: status,
		ShippingAddress: domain.ShippingAddress{
			AddressLine1: "რუსთაველის გამზ. 12", City: "თბილისი", PostalCode: "0108", Country: "საქართველო",
		},
		Subtotal: 240, ShippingCost: 15, ServiceFee: 2.4, TotalAmount: 257.4,
		PaymentMethod: domain.PaymentCashOnDelivery,
		Products: []domain.OrderLine{
			{ProductID: "chokha-1", Name: "ჩოხა", Quantity: 2, Price: 120, Slug: "chokha-black", SelectedSize: &size},
		},
	}
}

func TestOrderRoundTrip(t *testing.T) {
	r := repos.NewOrderRepo(memdb(t))
	o := sampleOrder("o-1", "sid-1", "", domain.StatusPending)
	require.NoError(t, r.Create(o))

	got, err := r.Get("o-1")
	require.NoError(t, err)
	if diff := cmp.Diff(*o, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, r.UpdateStatus("o-1", domain.StatusProcessing))
	got, _ = r.Get("o-1")
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.NotEmpty(t, got.UpdatedAt)

	assert.ErrorIs(t, r.UpdateStatus("missing", domain.StatusShipped), repos.ErrNotFound)
	_, err = r.Get("missing")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestOrderListings(t *testing.T) {
	db := memdb(t)
	r := repos.NewOrderRepo(db)
	users := repos.NewUserRepo(db)

	require.NoError(t, users.BindSession("sid-nino", "u-nino"))
	require.NoError(t, r.Create(sampleOrder("o-guest", "sid-guest", "", domain.StatusPending)))
	require.NoError(t, r.Create(sampleOrder("o-session", "sid-nino", "", domain.StatusDelivered)))
	require.NoError(t, r.Create(sampleOrder("o-user", "sid-x", "u-nino", domain.StatusCancelled)))

	mine, err := r.ListByUser("u-nino")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	guest, err := r.ListBySession("sid-guest")
	require.NoError(t, err)
	require.Len(t, guest, 1)
	assert.Equal(t, "o-guest", guest[0].ID)

	latest, err := r.ListLatest(2)
	require.NoError(t, err)
	assert.Equal(t, "o-user", latest[0].ID)

	rev, err := r.Revenue()
	require.NoError(t, err)
	assert.InDelta(t, 2*257.4, rev, 0.001)

	top, err := r.TopProducts(5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 4, top[0].Quantity)

	counts, err := r.CountByStatus()
	require.NoError(t, err)
	assert.Len(t, counts, 3)
}

func TestUserAccounts(t *testing.T) {
	db := memdb(t)
	r := repos.NewUserRepo(db)

	u := &domain.User{ID: "u-new", Email: "New@Tiflisi.ge", FirstName: "ლევან", LastName: "გელაშვილი", Hash: "x"}
	require.NoError(t, r.Create(u))
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.ErrorIs(t, r.Create(&domain.User{ID: "u-dup", Email: "new@tiflisi.ge", Hash: "x"}), repos.ErrEmailTaken)

	got, err := r.ByEmail("NEW@tiflisi.ge")
	require.NoError(t, err)
	assert.Equal(t, "ლევან გელაშვილი", got.Name())

	got.Phone = "599123456"
	got.AddressCity = "ქუთაისი"
	require.NoError(t, r.UpdateProfile(got))
	require.NoError(t, r.SetRole("u-new", domain.RoleAdmin))
	require.NoError(t, r.SetPasswordHash("u-new", "y"))
	got, err = r.ByID("u-new")
	require.NoError(t, err)
	assert.Equal(t, "ქუთაისი", got.AddressCity)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, "y", got.Hash)

	_, err = r.ByID("missing")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	require.NoError(t, r.BindSession("sid-1", "u-new"))
	su, err := r.SessionUser("sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u-new", su.ID)
	require.NoError(t, r.UnbindSession("sid-1"))
	_, err = r.SessionUser("sid-1")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestDeleteUserKeepsOrders(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	orders := repos.NewOrderRepo(db)
	kv := repos.NewKVRepo(db)
	ctx := context.Background()

	require.NoError(t, users.BindSession("sid-g", "u-giorgi"))
	require.NoError(t, kv.Set(ctx, "sid-g", "tiflisi_cart", []byte("[]")))
	require.NoError(t, orders.Create(sampleOrder("o-open", "sid-g", "u-giorgi", domain.StatusPending)))
	require.NoError(t, orders.Create(sampleOrder("o-done", "sid-g", "u-giorgi", domain.StatusDelivered)))

	require.NoError(t, users.DeleteUserCascade("u-giorgi"))

	_, err := users.ByID("u-giorgi")
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, ok, err := kv.Get(ctx, "sid-g", "tiflisi_cart")
	require.NoError(t, err)
	assert.False(t, ok)

	open, err := orders.Get("o-open")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, open.Status)
	done, _ := orders.Get("o-done")
	assert.Equal(t, domain.StatusDelivered, done.Status)

	assert.ErrorIs(t, users.DeleteUserCascade("u-giorgi"), repos.ErrNotFound)
}

func TestKVEntries(t *testing.T) {
	kv := repos.NewKVRepo(memdb(t))
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "ns", "k", []byte(`[1]`)))
	require.NoError(t, kv.Set(ctx, "ns", "k", []byte(`[2]`)))
	require.NoError(t, kv.Set(ctx, "other", "k", []byte(`[3]`)))
	v, ok, err := kv.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(v))

	require.NoError(t, kv.Delete(ctx, "ns", "k"))
	_, ok, _ = kv.Get(ctx, "ns", "k")
	assert.False(t, ok)
	_, ok, _ = kv.Get(ctx, "other", "k")
	assert.True(t, ok)

	n, err := kv.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSettingsRoundTrip(t *testing.T) {
	r := repos.NewSettingsRepo(memdb(t))
	s, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)

	s.TBCPayEnabled = true
	s.FreeShippingThreshold = 200
	s.FooterQuickLinks = []domain.FooterLink{{ID: "x", Label: "X", Href: "/x"}}
	require.NoError(t, r.Save(s))

	got, err := r.Get()
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestContactMessages(t *testing.T) {
	r := repos.NewContactRepo(memdb(t))
	m := &domain.ContactMessage{ID: "c-1", Name: "ნინო", Email: "n@x.ge", Subject: "შეკითხვა", Message: "როდის მოვა ჩოხა?"}
	require.NoError(t, r.Create(m))
	got, err := r.ListLatest(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *m, got[0])
}
