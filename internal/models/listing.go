// internal/models/listing.go
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// AmenityFlags is the canonical amenity order. Published amenity strings and
// the publish statement are both derived from it.
var AmenityFlags = []string{
	"wifi",
	"tv",
	"ac",
	"heating",
	"washer",
	"dryer",
	"refrigerator",
	"stove",
	"microwave",
	"coffee_maker",
	"dishwasher",
	"smoke_alarm",
	"co_alarm",
	"first_aid",
	"fire_extinguisher",
}

// ImageSlots are the named multipart fields accepted for listing photos.
var ImageSlots = []string{"image1", "image2", "image3", "image4"}

const VideoSlot = "video"

// BasicInfo is the step 1 draft.
type BasicInfo struct {
	ListingID     string    `json:"listing_id" form:"listing_id" gorm:"column:listing_id;primaryKey" validate:"required,notblank"`
	PropertyTitle *string   `json:"property_title" form:"property_title" gorm:"column:property_title"`
	Description   *string   `json:"description" form:"description" gorm:"column:description"`
	PropertyType  *string   `json:"property_type" form:"property_type" gorm:"column:property_type"`
	Bedrooms      NullInt   `json:"bedrooms" form:"bedrooms" gorm:"column:bedrooms"`
	Bathrooms     NullFloat `json:"bathrooms" form:"bathrooms" gorm:"column:bathrooms"`
	TotalArea     NullFloat `json:"total_area" form:"total_area" gorm:"column:total_area"`
}

func (BasicInfo) TableName() string { return "step1" }

// Amenities is the step 2 draft.
type Amenities struct {
	ListingID        string `json:"listing_id" form:"listing_id" gorm:"column:listing_id;primaryKey" validate:"required,notblank"`
	Wifi             Flag   `json:"wifi" form:"wifi" gorm:"column:wifi"`
	TV               Flag   `json:"tv" form:"tv" gorm:"column:tv"`
	AC               Flag   `json:"ac" form:"ac" gorm:"column:ac"`
	Heating          Flag   `json:"heating" form:"heating" gorm:"column:heating"`
	Washer           Flag   `json:"washer" form:"washer" gorm:"column:washer"`
	Dryer            Flag   `json:"dryer" form:"dryer" gorm:"column:dryer"`
	Refrigerator     Flag   `json:"refrigerator" form:"refrigerator" gorm:"column:refrigerator"`
	Stove            Flag   `json:"stove" form:"stove" gorm:"column:stove"`
	Microwave        Flag   `json:"microwave" form:"microwave" gorm:"column:microwave"`
	CoffeeMaker      Flag   `json:"coffee_maker" form:"coffee_maker" gorm:"column:coffee_maker"`
	Dishwasher       Flag   `json:"dishwasher" form:"dishwasher" gorm:"column:dishwasher"`
	SmokeAlarm       Flag   `json:"smoke_alarm" form:"smoke_alarm" gorm:"column:smoke_alarm"`
	COAlarm          Flag   `json:"co_alarm" form:"co_alarm" gorm:"column:co_alarm"`
	FirstAid         Flag   `json:"first_aid" form:"first_aid" gorm:"column:first_aid"`
	FireExtinguisher Flag   `json:"fire_extinguisher" form:"fire_extinguisher" gorm:"column:fire_extinguisher"`
	UniqueFeatures   string `json:"unique_features" form:"unique_features" gorm:"column:unique_features"`
	SpecialNotes     string `json:"special_notes" form:"special_notes" gorm:"column:special_notes"`
}

func (Amenities) TableName() string { return "step2" }

// Flags returns the flag values in AmenityFlags order.
func (a *Amenities) Flags() []Flag {
	return []Flag{
		a.Wifi, a.TV, a.AC, a.Heating, a.Washer, a.Dryer,
		a.Refrigerator, a.Stove, a.Microwave, a.CoffeeMaker, a.Dishwasher,
		a.SmokeAlarm, a.COAlarm, a.FirstAid, a.FireExtinguisher,
	}
}

// DeriveAmenities joins the names of the flags set to exactly 1, in canonical
// order. No flags yields an empty string.
func DeriveAmenities(a *Amenities) string {
	if a == nil {
		return ""
	}
	var names []string
	for i, f := range a.Flags() {
		if f.On() {
			names = append(names, AmenityFlags[i])
		}
	}
	return strings.Join(names, ",")
}

// Location is the step 3 draft.
type Location struct {
	ListingID string    `json:"listing_id" form:"listing_id" gorm:"column:listing_id;primaryKey" validate:"required,notblank"`
	Price     NullFloat `json:"price" form:"price" gorm:"column:price"`
	City      *string   `json:"city" form:"city" gorm:"column:city"`
	Area      *string   `json:"area" form:"area" gorm:"column:area"`
}

func (Location) TableName() string { return "step3" }

// Media holds blob store paths for a listing's uploads.
type Media struct {
	ListingID string  `json:"listing_id" gorm:"column:listing_id;primaryKey"`
	Image1    *string `json:"image1" gorm:"column:image1"`
	Image2    *string `json:"image2" gorm:"column:image2"`
	Image3    *string `json:"image3" gorm:"column:image3"`
	Image4    *string `json:"image4" gorm:"column:image4"`
	Video     *string `json:"video" gorm:"column:video"`
}

func (Media) TableName() string { return "upload" }

// SetImage stores path in the slot with the given ImageSlots index.
func (m *Media) SetImage(index int, path *string) {
	switch index {
	case 0:
		m.Image1 = path
	case 1:
		m.Image2 = path
	case 2:
		m.Image3 = path
	case 3:
		m.Image4 = path
	}
}

// PublishedListing is the denormalized snapshot written by publish.
type PublishedListing struct {
	ID            uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ListingID     string    `json:"listing_id" gorm:"column:listing_id;uniqueIndex"`
	PropertyTitle *string   `json:"property_title" gorm:"column:property_title"`
	Description   *string   `json:"description" gorm:"column:description"`
	PropertyType  *string   `json:"property_type" gorm:"column:property_type"`
	Bedrooms      NullInt   `json:"bedrooms" gorm:"column:bedrooms"`
	Bathrooms     NullFloat `json:"bathrooms" gorm:"column:bathrooms"`
	TotalArea     NullFloat `json:"total_area" gorm:"column:total_area"`
	Amenities     string    `json:"amenities" gorm:"column:amenities"`
	SpecialNotes  string    `json:"special_notes" gorm:"column:special_notes"`
	Price         NullFloat `json:"price" gorm:"column:price"`
	City          *string   `json:"city" gorm:"column:city"`
	Area          *string   `json:"area" gorm:"column:area"`
	Image1        *string   `json:"image1" gorm:"column:image1"`
	Image2        *string   `json:"image2" gorm:"column:image2"`
	Image3        *string   `json:"image3" gorm:"column:image3"`
	Image4        *string   `json:"image4" gorm:"column:image4"`
	Video         *string   `json:"video" gorm:"column:video"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

func (PublishedListing) TableName() string { return "step4" }

// Snapshot builds the published row for a complete draft. It mirrors the
// publish statement and is used by backends that cannot run it.
func Snapshot(b *BasicInfo, a *Amenities, l *Location, m *Media) PublishedListing {
	return PublishedListing{
		ListingID:     b.ListingID,
		PropertyTitle: b.PropertyTitle,
		Description:   b.Description,
		PropertyType:  b.PropertyType,
		Bedrooms:      b.Bedrooms,
		Bathrooms:     b.Bathrooms,
		TotalArea:     b.TotalArea,
		Amenities:     DeriveAmenities(a),
		SpecialNotes:  a.SpecialNotes,
		Price:         l.Price,
		City:          l.City,
		Area:          l.Area,
		Image1:        m.Image1,
		Image2:        m.Image2,
		Image3:        m.Image3,
		Image4:        m.Image4,
		Video:         m.Video,
	}
}

// ListingDraft is the current state of all four steps. Missing steps render
// as empty objects.
type ListingDraft struct {
	Step1 *BasicInfo
	Step2 *Amenities
	Step3 *Location
	Media *Media
}

func (d ListingDraft) MarshalJSON() ([]byte, error) {
	empty := struct{}{}
	out := map[string]interface{}{
		"step1": empty,
		"step2": empty,
		"step3": empty,
		"media": empty,
	}
	if d.Step1 != nil {
		out["step1"] = d.Step1
	}
	if d.Step2 != nil {
		out["step2"] = d.Step2
	}
	if d.Step3 != nil {
		out["step3"] = d.Step3
	}
	if d.Media != nil {
		out["media"] = d.Media
	}
	return json.Marshal(out)
}
