package services

import (
	"sort"
	"time"
)

// RateHeader is one vendor rate card: vendor + shipment context + validity
// window. Lines hang off the header.
type RateHeader struct {
	ID          string
	VendorID    string
	Mode        string
	Movement    string
	Origin      string
	Destination string
	Incoterm    string
	Currency    string
	ValidFrom   time.Time
	ValidUpto   time.Time
	Active      bool
}

// RateLine is one slab (or fixed) rate on a header. SlabMin/SlabMax bound
// the chargeable quantity inclusively; IsFixedRate lines ignore the slab.
type RateLine struct {
	ID          string
	HeaderID    string
	ChargeID    string
	UOMID       string
	Rate        float64
	SlabMin     float64
	SlabMax     float64
	IsFixedRate bool
	Sequence    int
}

// RateQuery is the lookup key for a single charge on a quotation.
type RateQuery struct {
	ChargeID string
	UOMID    string
	Quantity float64
	AsOf     time.Time
}

// VendorCandidate is one vendor's qualifying cost quote for a charge,
// in the vendor's rate-card currency.
type VendorCandidate struct {
	VendorID string
	HeaderID string
	LineID   string
	Rate     float64
	Currency string
}

// FilterHeadersForContext keeps only headers usable for a quotation's
// shipment context on the pricing date.
func FilterHeadersForContext(headers []RateHeader, mode, movement, origin, destination, incoterm string, asOf time.Time) []RateHeader {
	var out []RateHeader
	for _, h := range headers {
		if !h.Active {
			continue
		}
		if h.Mode != mode || h.Movement != movement || h.Incoterm != incoterm {
			continue
		}
		if h.Origin != origin || h.Destination != destination {
			continue
		}
		if h.ValidFrom.After(asOf) {
			continue
		}
		if !h.ValidUpto.IsZero() && h.ValidUpto.Before(asOf) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// MatchVendorRates returns one cost candidate per vendor whose rate card
// covers the queried charge/UOM/quantity. Within a header, competing lines
// resolve by lowest sequence then lowest rate; across a vendor's headers the
// cheapest line wins, then the lexically earliest header id. The result is
// sorted by vendor id. An empty result means the charge has no costed vendor
// yet; the caller must surface that, not drop the charge.
func MatchVendorRates(headers []RateHeader, lines []RateLine, q RateQuery) []VendorCandidate {
	linesByHeader := make(map[string][]RateLine)
	for _, ln := range lines {
		if ln.ChargeID != q.ChargeID || ln.UOMID != q.UOMID {
			continue
		}
		if !ln.IsFixedRate && (q.Quantity < ln.SlabMin || q.Quantity > ln.SlabMax) {
			continue
		}
		linesByHeader[ln.HeaderID] = append(linesByHeader[ln.HeaderID], ln)
	}

	byVendor := make(map[string]VendorCandidate)
	for _, h := range headers {
		matched := linesByHeader[h.ID]
		if len(matched) == 0 {
			continue
		}
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Sequence != matched[j].Sequence {
				return matched[i].Sequence < matched[j].Sequence
			}
			return matched[i].Rate < matched[j].Rate
		})
		best := matched[0]

		cand := VendorCandidate{
			VendorID: h.VendorID,
			HeaderID: h.ID,
			LineID:   best.ID,
			Rate:     best.Rate,
			Currency: h.Currency,
		}
		prev, ok := byVendor[h.VendorID]
		if !ok || cand.Rate < prev.Rate || (cand.Rate == prev.Rate && cand.HeaderID < prev.HeaderID) {
			byVendor[h.VendorID] = cand
		}
	}

	out := make([]VendorCandidate, 0, len(byVendor))
	for _, c := range byVendor {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorID < out[j].VendorID })
	return out
}
