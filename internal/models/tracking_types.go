package models

import "time"

// OrderMeta is the open metadata document stored in the orders.metadata
// JSON column. It currently carries payment info and the shipment
// tracking sub-document.
type OrderMeta struct {
	Payment  *PaymentInfo  `json:"payment,omitempty"`
	Tracking *TrackingInfo `json:"tracking,omitempty"`
}

// PaymentInfo records how the customer said they would pay. All three
// methods are informational only; no charge is processed here.
type PaymentInfo struct {
	Method string `json:"method,omitempty"`
	Note   string `json:"note,omitempty"`
}

// TrackingInfo is the shipment tracking sub-document embedded in an
// order's metadata. An empty TrackingNumber means the order is not yet
// trackable.
//
// Staff edits MERGE into this struct field by field; a carrier refresh
// REPLACES it wholesale. Callers must not blur that distinction.
type TrackingInfo struct {
	Provider       string          `json:"provider,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Status         string          `json:"status,omitempty"`
	History        []TrackingEvent `json:"history,omitempty"`
}

// TrackingEvent is a single entry in a shipment's history.
type TrackingEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}
