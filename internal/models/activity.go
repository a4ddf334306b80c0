package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Enum domains are fixed, explicit member sets checked case-sensitively
// at the validation boundary. Anything outside a set is rejected, never
// coerced.
var (
	ValidProducts = memberSet("POS", "AIRTIME", "BILLS", "KYC", "TRANSFER", "LOAN")
	ValidStatuses = memberSet("SUCCESS", "FAILED", "PENDING")
	ValidChannels = memberSet("WEB", "MOBILE", "USSD", "AGENT", "API")
	ValidTiers    = memberSet("TIER_1", "TIER_2", "TIER_3")
)

// KYC funnel stages. Event types outside this set are dropped from the
// funnel silently.
const (
	KycDocumentSubmitted     = "DOCUMENT_SUBMITTED"
	KycVerificationCompleted = "VERIFICATION_COMPLETED"
	KycTierUpgrade           = "TIER_UPGRADE"
)

func memberSet(members ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// RawActivityRow is one CSV row before validation, all fields as text.
// Field names match the CSV column headers.
type RawActivityRow struct {
	EventID        string
	MerchantID     string
	EventTimestamp string
	Product        string
	EventType      string
	Amount         string
	Status         string
	Channel        string
	Region         string
	MerchantTier   string
}

// MerchantActivity is the persisted entity: one merchant transaction or
// KYC step. Created once at import time, never updated or deleted.
type MerchantActivity struct {
	EventID        string
	MerchantID     string
	EventTimestamp time.Time
	Product        string
	EventType      string
	Amount         float64
	Status         string
	Channel        string
	Region         string
	MerchantTier   string
}

// TopMerchant is the GET /analytics/top-merchant response body.
type TopMerchant struct {
	MerchantID  string  `json:"merchant_id"`
	TotalVolume float64 `json:"total_volume"`
}

// KycFunnel is the GET /analytics/kyc-funnel response body: unique
// merchants at each verification stage. Unseen stages stay 0.
type KycFunnel struct {
	DocumentsSubmitted     int64 `json:"documents_submitted"`
	VerificationsCompleted int64 `json:"verifications_completed"`
	TierUpgrades           int64 `json:"tier_upgrades"`
}

// ProductFailureRate is one element of the GET /analytics/failure-rates
// response, ordered by rate descending.
type ProductFailureRate struct {
	Product     string  `json:"product"`
	FailureRate float64 `json:"failure_rate"`
}

// KeyCount is one (key, count) pair of an ordered aggregation result.
type KeyCount struct {
	Key   string
	Count int64
}

// OrderedCounts serializes as a JSON object whose keys appear in slice
// order. encoding/json sorts map keys, which would destroy the
// count-descending order the product adoption contract requires.
type OrderedCounts []KeyCount

// MarshalJSON implements json.Marshaler.
func (oc OrderedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kc := range oc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kc.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(kc.Count, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
