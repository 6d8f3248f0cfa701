package booking

import "strings"

// Bucket names a derived, non-exclusive partition of the booking list.
type Bucket string

const (
	BucketAll        Bucket = "all"
	BucketToday      Bucket = "today"
	BucketUpcoming   Bucket = "upcoming"
	BucketUnassigned Bucket = "unassigned"
	BucketDraft      Bucket = "draft"
	BucketCancelled  Bucket = "cancelled"
	BucketHistory    Bucket = "history"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{
	BucketAll, BucketToday, BucketUpcoming, BucketUnassigned,
	BucketDraft, BucketCancelled, BucketHistory,
}

// ParseBucket validates a raw tab name, defaulting to "all" when empty.
func ParseBucket(raw string) (Bucket, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return BucketAll, true
	}
	for _, b := range Buckets {
		if Bucket(raw) == b {
			return b, true
		}
	}
	return "", false
}

// InBucket reports whether b belongs to bucket, evaluated against the
// injected today (ISO yyyy-MM-dd). Dates are compared as strings; the ISO
// layout makes lexical order match calendar order. A booking may belong to
// several buckets at once, and that is intentional.
func InBucket(b Booking, bucket Bucket, today string) bool {
	switch bucket {
	case BucketAll:
		return true
	case BucketToday:
		return b.Date == today
	case BucketUpcoming:
		return b.Date > today && (b.Status == StatusConfirmed || b.Status == StatusPending)
	case BucketUnassigned:
		return b.Unassigned() && (b.Status == StatusConfirmed || b.Status == StatusPending)
	case BucketDraft:
		return b.Status == StatusDraft || b.Status == StatusQuote
	case BucketCancelled:
		return b.Status == StatusCancelled
	case BucketHistory:
		return b.Date < today || b.Status == StatusCompleted
	}
	return false
}

// Classify partitions bookings into every bucket. Source order is preserved
// within each bucket. An empty input yields empty buckets, never an error.
func Classify(bookings []Booking, today string) map[Bucket][]Booking {
	out := make(map[Bucket][]Booking, len(Buckets))
	for _, bucket := range Buckets {
		out[bucket] = []Booking{}
	}
	for _, b := range bookings {
		for _, bucket := range Buckets {
			if InBucket(b, bucket, today) {
				out[bucket] = append(out[bucket], b)
			}
		}
	}
	return out
}

// Filter narrows a bucket's contents. query matches case-insensitively as a
// substring of id, customer name, or service name; status, when non-empty,
// must match exactly. Both conditions are ANDed.
func Filter(bookings []Booking, query string, status Status) []Booking {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []Booking{}
	for _, b := range bookings {
		if status != "" && b.Status != status {
			continue
		}
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesQuery(b Booking, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(b.ID), loweredQuery) ||
		strings.Contains(strings.ToLower(b.CustomerName), loweredQuery) ||
		strings.Contains(strings.ToLower(b.ServiceName), loweredQuery)
}

// Visible composes classification and filtering for one active tab.
func Visible(bookings []Booking, bucket Bucket, today, query string, status Status) []Booking {
	matched := []Booking{}
	for _, b := range bookings {
		if InBucket(b, bucket, today) {
			matched = append(matched, b)
		}
	}
	return Filter(matched, query, status)
}
