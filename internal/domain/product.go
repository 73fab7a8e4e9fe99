package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PlaceholderImage is used for products without any image.
const PlaceholderImage = "https://placehold.co/100x133.png"

type Product struct {
	ID                 string     `db:"id" json:"id"`
	Slug               string     `db:"slug" json:"slug"`
	Name               string     `db:"name" json:"name"`
	Description        string     `db:"description" json:"description"`
	Price              float64    `db:"price" json:"price"`
	ImageURLs          StringList `db:"image_urls" json:"imageUrls"`
	Category           string     `db:"category" json:"category"`
	Sizes              StringList `db:"sizes" json:"sizes"`
	Colors             StringList `db:"colors" json:"colors"`
	Stock              int        `db:"stock" json:"stock"`
	DataAIHint         string     `db:"data_ai_hint" json:"dataAiHint,omitempty"`
	DiscountPercentage float64    `db:"discount_percentage" json:"discountPercentage,omitempty"`
	BrandName          string     `db:"brand_name" json:"brandName,omitempty"`
	Gender             string     `db:"gender" json:"gender,omitempty"` // men | women | children
	AverageRating      float64    `db:"average_rating" json:"averageRating,omitempty"`
	ReviewCount        int        `db:"review_count" json:"reviewCount,omitempty"`
	CreatedAt          string     `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt          string     `db:"updated_at" json:"updatedAt,omitempty"`
}

func (p Product) PrimaryImage() string {
	if len(p.ImageURLs) > 0 && p.ImageURLs[0] != "" {
		return p.ImageURLs[0]
	}
	return PlaceholderImage
}

func (p Product) HasSize(s string) bool  { return p.Sizes.Contains(s) }
func (p Product) HasColor(c string) bool { return p.Colors.Contains(c) }

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
	ETA    string `json:"eta,omitempty"`
}

// StringList is a []string persisted as a JSON array column.
type StringList []string

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	*l = out
	return nil
}
