// Package shipping computes the per-store delivery fee for a checkout.
// Everything here is pure arithmetic over fixed tables; no I/O.
package shipping

import (
	"math"
	"strings"
)

// unknownCityKm is the fallback distance for cities missing from the
// table. Checkout must stay usable for unlisted destinations, so an
// unknown city gets a generic mid-range distance instead of an error.
const unknownCityKm = 100

// gosendMaxKm is the instant-courier service radius from the hub.
const gosendMaxKm = 30

// Approximate road distance from the Jakarta hub, in kilometers.
// Keys are lowercase.
var cityDistanceKm = map[string]int{
	"jakarta":     8,
	"bekasi":      22,
	"depok":       25,
	"tangerang":   28,
	"bogor":       55,
	"serang":      90,
	"bandung":     150,
	"cirebon":     220,
	"lampung":     230,
	"tegal":       330,
	"semarang":    450,
	"yogyakarta":  560,
	"solo":        570,
	"palembang":   580,
	"surabaya":    780,
	"malang":      850,
	"pontianak":   900,
	"banjarmasin": 1150,
	"denpasar":    1160,
	"padang":      1350,
	"balikpapan":  1550,
	"makassar":    1600,
	"medan":       1900,
	"manado":      2200,
	"jayapura":    3600,
}

type methodRate struct {
	base  int
	perKm int
	cap   int
}

// Courier rate cards. An unrecognized method falls back to the jne
// card rather than failing checkout.
var methodRates = map[string]methodRate{
	"jne": {base: 18000, perKm: 50, cap: 75000},
	"jnt": {base: 15000, perKm: 60, cap: 70000},
}

// DistanceKm resolves a city name to its approximate distance from the
// hub. Unknown cities resolve to unknownCityKm.
func DistanceKm(city string) int {
	if km, ok := cityDistanceKm[strings.ToLower(strings.TrimSpace(city))]; ok {
		return km
	}
	return unknownCityKm
}

// Quote returns the delivery fee for ONE store at the given
// destination. A multi-seller cart pays this once per distinct seller.
//
// gosend is free inside its service radius and flatly unavailable
// beyond it (available == false means checkout must be blocked for the
// method, not quoted an expensive fee). The courier methods charge
// base + perKm, clamped to a per-method cap. Postal codes starting
// with '9' (eastern remote zones) add a 10% surcharge after capping.
func Quote(city, postalCode, method string) (feePerStore, distanceKm int, available bool) {
	distanceKm = DistanceKm(city)

	m := strings.ToLower(strings.TrimSpace(method))
	if m == "gosend" {
		if distanceKm > gosendMaxKm {
			return 0, distanceKm, false
		}
		return 0, distanceKm, true
	}

	rate, ok := methodRates[m]
	if !ok {
		rate = methodRates["jne"]
	}

	fee := rate.base + rate.perKm*distanceKm
	if fee > rate.cap {
		fee = rate.cap
	}
	if strings.HasPrefix(postalCode, "9") {
		fee = int(math.Round(float64(fee) * 1.1))
	}
	if fee < 0 {
		fee = 0
	}
	return fee, distanceKm, true
}
