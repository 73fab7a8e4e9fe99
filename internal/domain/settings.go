package domain

type FooterLink struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// SiteSettings is the single site configuration document edited in the admin panel.
type SiteSettings struct {
	SiteName           string `json:"siteName"`
	ContactEmail       string `json:"contactEmail"`
	MaintenanceMode    bool   `json:"maintenanceMode"`
	SEOTitle           string `json:"seoTitle"`
	SEOMetaDescription string `json:"seoMetaDescription"`
	SEOKeywords        string `json:"seoKeywords"`
	LogoURL            string `json:"logoUrl"`

	CashOnDeliveryEnabled  bool    `json:"cashOnDeliveryEnabled"`
	TBCPayEnabled          bool    `json:"tbcPayEnabled"`
	TBCPayAPIClientID      string  `json:"tbcPayApiClientId"`
	EnableFlatRateShipping bool    `json:"enableFlatRateShipping"`
	DefaultShippingCost    float64 `json:"defaultShippingCost"`
	FreeShippingThreshold  float64 `json:"freeShippingThreshold"`

	BannerImageURL string `json:"bannerImageUrl"`
	BannerHeading  string `json:"bannerHeading"`
	BannerSubtext  string `json:"bannerSubtext"`
	BannerCtaText  string `json:"bannerCtaText"`
	BannerCtaLink  string `json:"bannerCtaLink"`

	CraftsmanshipTitle      string `json:"craftsmanshipTitle"`
	CraftsmanshipParagraph1 string `json:"craftsmanshipParagraph1"`
	CraftsmanshipParagraph2 string `json:"craftsmanshipParagraph2"`
	CraftsmanshipImageURL   string `json:"craftsmanshipImageUrl"`

	FooterDescription   string       `json:"footerDescription"`
	FooterCopyrightText string       `json:"footerCopyrightText"`
	FooterQuickLinks    []FooterLink `json:"footerQuickLinks"`

	ContactPageAddress      string `json:"contactPageAddress,omitempty"`
	ContactPagePhone        string `json:"contactPagePhone,omitempty"`
	ContactPageWorkingHours string `json:"contactPageWorkingHours,omitempty"`
	ContactPageBankAccount  string `json:"contactPageBankAccount,omitempty"`

	EnableHomePageAd      bool   `json:"enableHomePageAd,omitempty"`
	HomePageAdImageURL    string `json:"homePageAdImageUrl,omitempty"`
	HomePageAdLinkURL     string `json:"homePageAdLinkUrl,omitempty"`
	EnableCatalogPageAd   bool   `json:"enableCatalogPageAd,omitempty"`
	CatalogPageAdImageURL string `json:"catalogPageAdImageUrl,omitempty"`
	CatalogPageAdLinkURL  string `json:"catalogPageAdLinkUrl,omitempty"`
}

func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:               "თიფლისი",
		ContactEmail:           "info@tiflisi.ge",
		SEOTitle:               "თიფლისი - ქართული ტანსაცმელი",
		SEOMetaDescription:     "ტრადიციული და თანამედროვე ქართული სამოსი",
		CashOnDeliveryEnabled:  true,
		EnableFlatRateShipping: true,
		DefaultShippingCost:    15,
		BannerHeading:          "ქართული ტრადიცია თანამედროვე სამოსში",
		BannerCtaText:          "კატალოგის ნახვა",
		BannerCtaLink:          "/catalog",
		CraftsmanshipTitle:     "ხელნაკეთი ოსტატობა",
		FooterCopyrightText:    "© თიფლისი",
		FooterQuickLinks: []FooterLink{
			{ID: "about", Label: "ჩვენ შესახებ", Href: "/about"},
			{ID: "contact", Label: "კონტაქტი", Href: "/contact"},
			{ID: "terms", Label: "წესები და პირობები", Href: "/terms"},
		},
	}
}
