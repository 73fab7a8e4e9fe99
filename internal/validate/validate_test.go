package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldHelpers(t *testing.T) {
	_, ok := Email("nino@tiflisi.ge")
	assert.True(t, ok)
	_, ok = Email("nino@")
	assert.False(t, ok)

	q, ok := Q("  ჩოხა შავი ")
	assert.True(t, ok)
	assert.Equal(t, "ჩოხა შავი", q)
	_, ok = Q("<script>")
	assert.False(t, ok)

	assert.Equal(t, 1, Qty("0"))
	assert.Equal(t, 1, Qty("abc"))
	assert.Equal(t, 50, Qty("500"))
	assert.Equal(t, 3, Qty(" 3 "))

	n, ok := SetQty("-5")
	assert.True(t, ok)
	assert.Equal(t, -5, n)
	_, ok = SetQty("x")
	assert.False(t, ok)

	_, ok = LineID("chokha-1-L-black")
	assert.True(t, ok)
	_, ok = LineID("chokha-1-no-size-შავი")
	assert.True(t, ok)
	_, ok = LineID("kaba-1-XL (52)-Black & White")
	assert.True(t, ok)
	_, ok = LineID("a\nb")
	assert.False(t, ok)
	_, ok = LineID("   ")
	assert.False(t, ok)
	_, ok = LineID(strings.Repeat("x", 300))
	assert.False(t, ok)

	_, ok = Slug("chokha-black")
	assert.True(t, ok)
	_, ok = Slug("Chokha Black")
	assert.False(t, ok)

	o, ok := Option("")
	assert.True(t, ok)
	assert.Empty(t, o)
	_, ok = Option("XL")
	assert.True(t, ok)
	o, ok = Option("  Black & White ")
	assert.True(t, ok)
	assert.Equal(t, "Black & White", o)
	_, ok = Option("XL (52)")
	assert.True(t, ok)
	_, ok = Option("L\x00")
	assert.False(t, ok)
	_, ok = Option(strings.Repeat("ზ", 101))
	assert.False(t, ok)

	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))

	assert.Equal(t, 10, PhoneDigits("+995 599-12-34"))
	assert.Equal(t, -1, PhoneDigits("599abc"))
}

func validCheckout() CheckoutForm {
	return CheckoutForm{
		FirstName: "ნინო", LastName: "ბერიძე", Email: "nino@tiflisi.ge",
		City: "თბილისი", PostalCode: "0108", PaymentMethod: "cash_on_delivery",
	}
}

func TestCheckoutForm(t *testing.T) {
	f := validCheckout()
	assert.Nil(t, Struct(&f))

	// Georgian names count runes, not bytes
	f.FirstName = "ნ"
	errs := Struct(&f)
	require.NotNil(t, errs)
	assert.True(t, errs.Has("firstName"))

	f = validCheckout()
	f.Phone = "5991234"
	f.Address = "short"
	f.PaymentMethod = "bitcoin"
	f.Notes = string(make([]rune, 201))
	errs = Struct(&f)
	assert.True(t, errs.Has("phone"))
	assert.True(t, errs.Has("address"))
	assert.True(t, errs.Has("paymentMethod"))
	assert.True(t, errs.Has("notes"))
	assert.False(t, errs.Has("email"))

	f = validCheckout()
	f.City = "  თბილისი  "
	require.Nil(t, Struct(&f))
	assert.Equal(t, "თბილისი", f.City)
}

func TestRegisterForm(t *testing.T) {
	f := RegisterForm{
		FirstName: "ლევან", LastName: "გელაშვილი", Email: "levan@tiflisi.ge",
		Password: "Passw0rd!", ConfirmPassword: "Passw0rd!",
	}
	assert.Nil(t, Struct(&f))

	f.ConfirmPassword = "Passw0rd?"
	f.Gender = "other"
	errs := Struct(&f)
	assert.Equal(t, "პაროლები არ ემთხვევა", errs["confirmPassword"])
	assert.True(t, errs.Has("gender"))
	assert.Contains(t, errs.Error(), "confirmPassword")
}

func TestContactAndStylistForms(t *testing.T) {
	c := ContactForm{Name: "ნინო", Email: "n@x.ge", Subject: "კითხვა", Message: "მოკლე"}
	errs := Struct(&c)
	assert.True(t, errs.Has("message"))
	assert.False(t, errs.Has("subject"))

	s := StylistForm{ClothingItem: "ჩოხა", UserStyle: "კლასიკური"}
	errs = Struct(&s)
	assert.Equal(t, "სავალდებულო ველი", errs["occasion"])
}

func TestProductForm(t *testing.T) {
	p := ProductForm{Name: "ჩოხა", Slug: "chokha-black", Price: 120, Category: "ტრადიციული", DiscountPercentage: 120}
	errs := Struct(&p)
	assert.True(t, errs.Has("discountPercentage"))
	p.DiscountPercentage = 0
	p.Price = -1
	assert.True(t, Struct(&p).Has("price"))
}

func TestSplitListAndChecked(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "L"}, SplitList(" S, M ,,L, S"))
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, SplitList("/a.jpg\r\n/b.jpg\n"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.True(t, Checked("on"))
	assert.False(t, Checked(""))
}
