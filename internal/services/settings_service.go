package services

import (
	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

type SettingsService struct {
	Repo *repos.SettingsRepo
}

func NewSettingsService(r *repos.SettingsRepo) *SettingsService { return &SettingsService{Repo: r} }

// Current returns the stored settings, or the defaults when they cannot be read.
func (s *SettingsService) Current() domain.SiteSettings {
	st, err := s.Repo.Get()
	if err != nil {
		applog.Error(nil, "settings.load.fail", err, nil)
		return domain.DefaultSettings()
	}
	return st
}

func (s *SettingsService) Save(st domain.SiteSettings) error {
	return s.Repo.Save(st)
}

// ApplyForm copies the edited fields onto st. Image URLs and footer links
// are left alone; images change through uploads only.
func ApplyForm(st domain.SiteSettings, f validate.SettingsForm) domain.SiteSettings {
	st.SiteName = f.SiteName
	st.ContactEmail = f.ContactEmail
	st.MaintenanceMode = validate.Checked(f.MaintenanceMode)
	st.SEOTitle = f.SEOTitle
	st.SEOMetaDescription = f.SEOMetaDescription
	st.SEOKeywords = f.SEOKeywords

	st.CashOnDeliveryEnabled = validate.Checked(f.CashOnDeliveryEnabled)
	st.TBCPayEnabled = validate.Checked(f.TBCPayEnabled)
	st.TBCPayAPIClientID = f.TBCPayAPIClientID
	st.EnableFlatRateShipping = validate.Checked(f.EnableFlatRateShipping)
	st.DefaultShippingCost = f.DefaultShippingCost
	st.FreeShippingThreshold = f.FreeShippingThreshold

	st.BannerHeading = f.BannerHeading
	st.BannerSubtext = f.BannerSubtext
	st.BannerCtaText = f.BannerCtaText
	st.BannerCtaLink = f.BannerCtaLink

	st.CraftsmanshipTitle = f.CraftsmanshipTitle
	st.CraftsmanshipParagraph1 = f.CraftsmanshipParagraph1
	st.CraftsmanshipParagraph2 = f.CraftsmanshipParagraph2

	st.FooterDescription = f.FooterDescription
	st.FooterCopyrightText = f.FooterCopyrightText

	st.ContactPageAddress = f.ContactPageAddress
	st.ContactPagePhone = f.ContactPagePhone
	st.ContactPageWorkingHours = f.ContactPageWorkingHours
	st.ContactPageBankAccount = f.ContactPageBankAccount

	st.EnableHomePageAd = validate.Checked(f.EnableHomePageAd)
	st.HomePageAdLinkURL = f.HomePageAdLinkURL
	st.EnableCatalogPageAd = validate.Checked(f.EnableCatalogPageAd)
	st.CatalogPageAdLinkURL = f.CatalogPageAdLinkURL
	return st
}

// SetImage stores the URL of an uploaded site image in its slot.
func (s *SettingsService) SetImage(slot, url string) error {
	st := s.Current()
	switch slot {
	case SlotLogo:
		st.LogoURL = url
	case SlotBanner:
		st.BannerImageURL = url
	case SlotCraftsmanship:
		st.CraftsmanshipImageURL = url
	case SlotHomeAd:
		st.HomePageAdImageURL = url
	case SlotCatalogAd:
		st.CatalogPageAdImageURL = url
	default:
		return ErrUnknownSlot
	}
	return s.Repo.Save(st)
}
