package models

import (
	"sort"
	"time"
)

type RankLimit struct {
	Rank              UserRank  `gorm:"type:varchar(16);primaryKey" json:"rank"`
	MaxConcurrentJobs int       `gorm:"not null" json:"max_concurrent_jobs"`
	MinCreditScore    int       `gorm:"not null" json:"min_credit_score"`
	Description       *string   `json:"description,omitempty"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RankLimit) TableName() string { return "rank_limits" }

// RankForScore picks the highest rank whose minimum credit score is met.
// Falls back to newbie when no row qualifies.
func RankForScore(limits []RankLimit, score int) UserRank {
	sorted := make([]RankLimit, len(limits))
	copy(sorted, limits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinCreditScore > sorted[j].MinCreditScore
	})
	for _, l := range sorted {
		if score >= l.MinCreditScore {
			return l.Rank
		}
	}
	return RankNewbie
}

// PricingConfigID is the primary key of the singleton pricing row.
const PricingConfigID = 1

type PricingConfig struct {
	ID                   int       `gorm:"primaryKey" json:"-"`
	RatePerWord          int64     `gorm:"not null" json:"rate_per_word"`
	RatePerMinute        int64     `gorm:"not null" json:"rate_per_minute"`
	ReRecordBonusPercent int64     `gorm:"not null" json:"re_record_bonus_percent"`
	BaseDeadlineHours    int64     `gorm:"not null" json:"base_deadline_hours"`
	UpdatedBy            *string   `gorm:"type:uuid" json:"updated_by,omitempty"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PricingConfig) TableName() string { return "pricing_config" }

// DefaultPricingConfig mirrors the seeded row.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ID:                   PricingConfigID,
		RatePerWord:          50,
		RatePerMinute:        5000,
		ReRecordBonusPercent: 20,
		BaseDeadlineHours:    6,
	}
}

// DefaultRankLimits mirrors the seeded rank table.
func DefaultRankLimits() []RankLimit {
	desc := func(s string) *string { return &s }
	return []RankLimit{
		{Rank: RankNewbie, MaxConcurrentJobs: 1, MinCreditScore: 0, Description: desc("New collaborator")},
		{Rank: RankRegular, MaxConcurrentJobs: 2, MinCreditScore: 60, Description: desc("Regular collaborator")},
		{Rank: RankTrusted, MaxConcurrentJobs: 3, MinCreditScore: 80, Description: desc("Trusted collaborator")},
		{Rank: RankExpert, MaxConcurrentJobs: 5, MinCreditScore: 95, Description: desc("Expert collaborator")},
	}
}
