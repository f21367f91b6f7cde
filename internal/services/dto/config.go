package dto

type UpdatePricingRequest struct {
	RatePerWord          int64 `json:"rate_per_word" validate:"min=0,max=1000000"`
	RatePerMinute        int64 `json:"rate_per_minute" validate:"min=0,max=100000000"`
	ReRecordBonusPercent int64 `json:"re_record_bonus_percent" validate:"min=0,max=100"`
	BaseDeadlineHours    int64 `json:"base_deadline_hours" validate:"min=1,max=720"`
}

type UpdateRankLimitRequest struct {
	MaxConcurrentJobs int     `json:"max_concurrent_jobs" validate:"min=1,max=50"`
	MinCreditScore    int     `json:"min_credit_score" validate:"min=0,max=100"`
	Description       *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
