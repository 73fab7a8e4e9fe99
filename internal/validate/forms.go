package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report errors under the form field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return PhoneDigits(fl.Field().String()) >= 9
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		_, ok := Slug(fl.Field().String())
		return ok
	})
	return v
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, m := range e {
		parts = append(parts, k+": "+m)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed; used by templates.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Struct trims every string field of the form in place and validates it.
// It returns nil when the form is valid.
func Struct(form any) FieldErrors {
	trimStrings(form)
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	out := FieldErrors{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = message(fe)
			}
		}
		return out
	}
	out["_"] = "არასწორი მონაცემები"
	return out
}

func trimStrings(form any) {
	rv := reflect.ValueOf(form)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return
	}
	rv = rv.Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.CanSet() && rv.Type().Field(i).Tag.Get("trim") != "false" {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "სავალდებულო ველი"
	case "min":
		return "მინიმუმ " + fe.Param() + " სიმბოლო"
	case "max":
		return "მაქსიმუმ " + fe.Param() + " სიმბოლო"
	case "gte":
		return "მნიშვნელობა უნდა იყოს მინიმუმ " + fe.Param()
	case "lte":
		return "მნიშვნელობა უნდა იყოს მაქსიმუმ " + fe.Param()
	case "email":
		return "არასწორი ელ-ფოსტა"
	case "phone":
		return "ტელეფონის ნომერი უნდა შეიცავდეს მინიმუმ 9 ციფრს"
	case "password":
		return "პაროლი: 8-20 სიმბოლო, დიდი და პატარა ასო, ციფრი და სიმბოლო"
	case "eqfield":
		return "პაროლები არ ემთხვევა"
	case "oneof":
		return "დაუშვებელი მნიშვნელობა"
	case "slug":
		return "მხოლოდ ლათინური პატარა ასოები, ციფრები და ტირე"
	case "url":
		return "არასწორი ბმული"
	}
	return "არასწორი მნიშვნელობა"
}

type CheckoutForm struct {
	FirstName     string `form:"firstName" validate:"required,min=2,max=50"`
	LastName      string `form:"lastName" validate:"required,min=2,max=50"`
	Email         string `form:"email" validate:"required,email,max=100"`
	Phone         string `form:"phone" validate:"omitempty,phone,max=20"`
	Address       string `form:"address" validate:"omitempty,min=10,max=200"`
	City          string `form:"city" validate:"required,min=2,max=60"`
	PostalCode    string `form:"postalCode" validate:"required,min=4,max=10"`
	Notes         string `form:"notes" validate:"max=200"`
	PaymentMethod string `form:"paymentMethod" validate:"required,oneof=cash_on_delivery tbc_pay"`
}

type RegisterForm struct {
	FirstName       string `form:"firstName" validate:"required,min=2,max=50"`
	LastName        string `form:"lastName" validate:"required,min=2,max=50"`
	Email           string `form:"email" validate:"required,email,max=100"`
	Password        string `form:"password" trim:"false" validate:"required,password"`
	ConfirmPassword string `form:"confirmPassword" trim:"false" validate:"required,eqfield=Password"`
	Phone           string `form:"phone" validate:"omitempty,phone,max=20"`
	Gender          string `form:"gender" validate:"omitempty,oneof=male female"`
	City            string `form:"city" validate:"omitempty,min=2,max=60"`
	PostalCode      string `form:"postalCode" validate:"omitempty,min=4,max=10"`
}

type ProfileForm struct {
	FirstName  string `form:"firstName" validate:"required,min=2,max=50"`
	LastName   string `form:"lastName" validate:"required,min=2,max=50"`
	Phone      string `form:"phone" validate:"omitempty,phone,max=20"`
	Gender     string `form:"gender" validate:"omitempty,oneof=male female"`
	City       string `form:"city" validate:"omitempty,min=2,max=60"`
	PostalCode string `form:"postalCode" validate:"omitempty,min=4,max=10"`
	AvatarURL  string `form:"avatarUrl" validate:"omitempty,url,max=500"`
}

type ChangePasswordForm struct {
	CurrentPassword string `form:"currentPassword" trim:"false" validate:"required"`
	NewPassword     string `form:"newPassword" trim:"false" validate:"required,password"`
	ConfirmPassword string `form:"confirmPassword" trim:"false" validate:"required,eqfield=NewPassword"`
}

// ProductForm is the admin add/edit product form. List fields are comma
// separated (sizes, colors) or newline separated (image URLs).
type ProductForm struct {
	Name               string  `form:"name" validate:"required,min=2,max=120"`
	Slug               string  `form:"slug" validate:"required,slug,max=80"`
	Description        string  `form:"description" validate:"max=2000"`
	Price              float64 `form:"price" validate:"gte=0"`
	Category           string  `form:"category" validate:"required,max=60"`
	Sizes              string  `form:"sizes" validate:"max=200"`
	Colors             string  `form:"colors" validate:"max=200"`
	ImageURLs          string  `form:"imageUrls" validate:"max=4000"`
	Stock              int     `form:"stock" validate:"gte=0"`
	Gender             string  `form:"gender" validate:"omitempty,oneof=men women children"`
	DiscountPercentage float64 `form:"discountPercentage" validate:"gte=0,lte=100"`
	BrandName          string  `form:"brandName" validate:"max=60"`
	DataAIHint         string  `form:"dataAiHint" validate:"max=60"`
}

type StylistForm struct {
	ClothingItem string `form:"clothingItem" validate:"required,min=2,max=200"`
	UserStyle    string `form:"userStyle" validate:"required,min=2,max=200"`
	Occasion     string `form:"occasion" validate:"required,min=2,max=200"`
}

type ContactForm struct {
	Name    string `form:"name" validate:"required,min=2,max=60"`
	Email   string `form:"email" validate:"required,email,max=100"`
	Subject string `form:"subject" validate:"required,min=5,max=120"`
	Message string `form:"message" validate:"required,min=10,max=500"`
}

type UserEditForm struct {
	FirstName  string `form:"firstName" validate:"required,min=2,max=50"`
	LastName   string `form:"lastName" validate:"required,min=2,max=50"`
	Phone      string `form:"phone" validate:"omitempty,phone,max=20"`
	City       string `form:"city" validate:"omitempty,min=2,max=60"`
	PostalCode string `form:"postalCode" validate:"omitempty,min=4,max=10"`
	Role       string `form:"role" validate:"required,oneof=USER ADMIN"`
}

// SettingsForm mirrors the admin settings page. Checkbox fields arrive as
// "on" or are absent.
type SettingsForm struct {
	SiteName           string `form:"siteName" validate:"required,max=80"`
	ContactEmail       string `form:"contactEmail" validate:"required,email,max=100"`
	MaintenanceMode    string `form:"maintenanceMode"`
	SEOTitle           string `form:"seoTitle" validate:"max=120"`
	SEOMetaDescription string `form:"seoMetaDescription" validate:"max=300"`
	SEOKeywords        string `form:"seoKeywords" validate:"max=300"`

	CashOnDeliveryEnabled  string  `form:"cashOnDeliveryEnabled"`
	TBCPayEnabled          string  `form:"tbcPayEnabled"`
	TBCPayAPIClientID      string  `form:"tbcPayApiClientId" validate:"max=120"`
	EnableFlatRateShipping string  `form:"enableFlatRateShipping"`
	DefaultShippingCost    float64 `form:"defaultShippingCost" validate:"gte=0"`
	FreeShippingThreshold  float64 `form:"freeShippingThreshold" validate:"gte=0"`

	BannerHeading string `form:"bannerHeading" validate:"max=120"`
	BannerSubtext string `form:"bannerSubtext" validate:"max=300"`
	BannerCtaText string `form:"bannerCtaText" validate:"max=60"`
	BannerCtaLink string `form:"bannerCtaLink" validate:"max=300"`

	CraftsmanshipTitle      string `form:"craftsmanshipTitle" validate:"max=120"`
	CraftsmanshipParagraph1 string `form:"craftsmanshipParagraph1" validate:"max=2000"`
	CraftsmanshipParagraph2 string `form:"craftsmanshipParagraph2" validate:"max=2000"`

	FooterDescription   string `form:"footerDescription" validate:"max=500"`
	FooterCopyrightText string `form:"footerCopyrightText" validate:"max=200"`

	ContactPageAddress      string `form:"contactPageAddress" validate:"max=200"`
	ContactPagePhone        string `form:"contactPagePhone" validate:"max=40"`
	ContactPageWorkingHours string `form:"contactPageWorkingHours" validate:"max=120"`
	ContactPageBankAccount  string `form:"contactPageBankAccount" validate:"max=60"`

	EnableHomePageAd     string `form:"enableHomePageAd"`
	HomePageAdLinkURL    string `form:"homePageAdLinkUrl" validate:"max=300"`
	EnableCatalogPageAd  string `form:"enableCatalogPageAd"`
	CatalogPageAdLinkURL string `form:"catalogPageAdLinkUrl" validate:"max=300"`
}

// Checked reports whether an HTML checkbox value means "on".
func Checked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// SplitList splits on commas and newlines, trimming and dropping blanks and
// duplicates.
func SplitList(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
