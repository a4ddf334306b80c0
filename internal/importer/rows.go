package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shemigam1/dream-devs-assesment/internal/models"
)

// timestampLayouts are the formats merchant export files carry.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp normalizes a raw timestamp to UTC.
func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsValidRow reports whether a raw row is admissible for storage.
//
// A row is valid only if the event id is non-empty, the merchant id
// carries the MRC- prefix, the timestamp parses, and every enum field
// is an exact member of its domain. amount and event_type are never
// validated here; no field-level detail is produced.
func IsValidRow(row models.RawActivityRow) bool {
	if row.EventID == "" {
		return false
	}
	if !strings.HasPrefix(row.MerchantID, "MRC-") {
		return false
	}
	if _, ok := parseTimestamp(row.EventTimestamp); !ok {
		return false
	}
	if _, ok := models.ValidProducts[row.Product]; !ok {
		return false
	}
	if _, ok := models.ValidStatuses[row.Status]; !ok {
		return false
	}
	if _, ok := models.ValidChannels[row.Channel]; !ok {
		return false
	}
	if _, ok := models.ValidTiers[row.MerchantTier]; !ok {
		return false
	}
	return true
}

// ParseRow converts an admissible raw row into the typed entity.
// Precondition: IsValidRow(row) is true; ParseRow performs no
// validation of its own.
//
// An unparsable or empty amount coerces to exactly 0. Known tolerance:
// this masks bad amount data, but it is the contracted behavior.
func ParseRow(row models.RawActivityRow) models.MerchantActivity {
	ts, _ := parseTimestamp(row.EventTimestamp)

	// NaN/Inf parse in Go but cannot be stored in a NUMERIC column.
	amount, err := strconv.ParseFloat(strings.TrimSpace(row.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	return models.MerchantActivity{
		EventID:        row.EventID,
		MerchantID:     row.MerchantID,
		EventTimestamp: ts,
		Product:        row.Product,
		EventType:      row.EventType,
		Amount:         amount,
		Status:         row.Status,
		Channel:        row.Channel,
		Region:         row.Region,
		MerchantTier:   row.MerchantTier,
	}
}
