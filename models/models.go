// Package models contains the request and entity types exchanged between the
// widget pipeline, the upstream API clients and the web layer.
package models

// Address holds the postal address fields returned by the profile API.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Offer is a promotional listing returned by the offers API, enriched with
// profile data and rendered into the ad widget. Instances are owned by a
// single request and are never shared across concurrent pipeline runs.
type Offer struct {
	ListingID        string   `json:"listing_id"`
	OfferID          string   `json:"offer_id"`
	ReferenceID      string   `json:"reference_id"`
	ListingName      string   `json:"listing_name"`
	ShortListingName string   `json:"short_listing_name"`
	Title            string   `json:"title"`
	ShortTitle       string   `json:"short_title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Street           string   `json:"street"`
	Zip              string   `json:"zip"`
	Location         string   `json:"location"`
	AttributionSrc   string   `json:"attribution_source"`
	Latitude         string   `json:"latitude"`
	Longitude        string   `json:"longitude"`
	RatingValue      string   `json:"rating"`
	Stars            []int    `json:"stars"`
	ReviewCount      int      `json:"review_count"`
	ImageURL         string   `json:"image_url"`
	ProfileURL       string   `json:"profile_url"`
	Phone            string   `json:"phone"`
	Distance         *float64 `json:"distance,omitempty"`

	ProfileTrackingURL string `json:"profile_tracking_url"`
	CouponTrackingURL  string `json:"coupon_tracking_url"`
	CallBackFunction   string `json:"callback_function,omitempty"`
	CallBackURL        string `json:"callback_url,omitempty"`

	// Backfill carries the secondary profile-and-latest-review content used
	// when the upstream returned fewer offers than the display size.
	Backfill *Profile `json:"backfill,omitempty"`
}

// Profile is the business metadata returned by the profile API. It is owned
// by the request that fetched it.
type Profile struct {
	ListingID       string  `json:"listing_id,omitempty"`
	Address         Address `json:"address"`
	Phone           string  `json:"phone"`
	ProfileURL      string  `json:"profile_url"`
	SendToFriendURL string  `json:"send_to_friend_url"`
	ImageURL        string  `json:"image_url"`
	ReviewsURL      string  `json:"reviews_url"`
	WebsiteURL      string  `json:"website_url"`
	MenuURL         string  `json:"menu_url"`
	ReservationURL  string  `json:"reservation_url"`
	MapURL          string  `json:"map_url"`
	ReviewCount     int     `json:"review_count"`
	Review          *Review `json:"review,omitempty"`
}

// Review is a single user review, truncated per ad unit and backfilled with
// profile data when fetched through the dedicated review flow.
type Review struct {
	ListingID         string `json:"listing_id"`
	ReviewID          string `json:"review_id"`
	BusinessName      string `json:"business_name"`
	ShortBusinessName string `json:"short_business_name"`
	Title             string `json:"title"`
	ShortTitle        string `json:"short_title"`
	Text              string `json:"text"`
	ShortText         string `json:"short_text"`
	SmallText         string `json:"small_text"`
	Pros              string `json:"pros"`
	ShortPros         string `json:"short_pros"`
	Cons              string `json:"cons"`
	ShortCons         string `json:"short_cons"`
	Author            string `json:"author"`
	RatingValue       string `json:"rating"`
	Stars             []int  `json:"stars"`
	ReviewURL         string `json:"review_url"`
	Date              string `json:"date"`
	TimeSince         string `json:"time_since"`

	Address         Address `json:"address"`
	Phone           string  `json:"phone"`
	ProfileURL      string  `json:"profile_url"`
	SendToFriendURL string  `json:"send_to_friend_url"`
	ImageURL        string  `json:"image_url"`

	ProfileTrackingURL      string `json:"profile_tracking_url"`
	ReviewTrackingURL       string `json:"review_tracking_url"`
	SendToFriendTrackingURL string `json:"send_to_friend_tracking_url"`
	CallBackFunction        string `json:"callback_function,omitempty"`
	CallBackURL             string `json:"callback_url,omitempty"`
}

// HouseAd is the fallback creative rendered when the pipeline cannot produce
// sponsored results.
type HouseAd struct {
	Title          string `json:"title"`
	TagLine        string `json:"tag_line"`
	DestinationURL string `json:"destination_url"`
	DisplayURL     string `json:"display_url"`
	ImageURL       string `json:"image_url"`
	TrackingURL    string `json:"tracking_url"`
}
