package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
	Alt      string `bson:"alt,omitempty" json:"alt,omitempty"`
}

type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string             `bson:"name" json:"name"`
	Slug             string             `bson:"slug" json:"slug"`
	Description      string             `bson:"description" json:"description"`
	ShortDescription string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	Category         string             `bson:"category" json:"category"`
	Images           []ProductImage     `bson:"images" json:"images"`
	Price            *float64           `bson:"price,omitempty" json:"price,omitempty"`
	PriceOnRequest   bool               `bson:"priceOnRequest" json:"priceOnRequest"`
	Material         string             `bson:"material,omitempty" json:"material,omitempty"`
	Weight           string             `bson:"weight,omitempty" json:"weight,omitempty"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Featured         bool               `bson:"featured" json:"featured"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	ViewCount        int64              `bson:"viewCount" json:"viewCount"`
	Stock            int64              `bson:"stock" json:"stock"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CategoryImage struct {
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
}

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       CategoryImage      `bson:"image,omitempty" json:"image,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductFilter narrows product lookups. Nil pointer fields are ignored.
type ProductFilter struct {
	Category string
	Featured *bool
	IsActive *bool
	Search   string
}

const (
	SORT_NEWEST     = "newest"
	SORT_OLDEST     = "oldest"
	SORT_POPULAR    = "popular"
	SORT_PRICE_ASC  = "price-asc"
	SORT_PRICE_DESC = "price-desc"
)
