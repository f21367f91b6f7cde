package services

import (
	"gorm.io/gorm"

	"github.com/tungtase04539/sangtaophaisinh/internal/config"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
)

// CreditPolicy moves a collaborator's credit score within [0, Max].
type CreditPolicy struct {
	Initial        int
	Max            int
	ReleasePenalty int
	ApprovalReward int
}

func DefaultCreditPolicy() CreditPolicy {
	return CreditPolicy{Initial: 50, Max: 100, ReleasePenalty: 5, ApprovalReward: 2}
}

func CreditPolicyFromConfig(cfg *config.Config) CreditPolicy {
	return CreditPolicy{
		Initial:        cfg.Credit.InitialScore,
		Max:            cfg.Credit.MaxScore,
		ReleasePenalty: cfg.Credit.ReleasePenalty,
		ApprovalReward: cfg.Credit.ApprovalReward,
	}
}

func (p CreditPolicy) AfterRelease(score int) int {
	return p.clamp(score - p.ReleasePenalty)
}

func (p CreditPolicy) AfterApproval(score int) int {
	return p.clamp(score + p.ApprovalReward)
}

func (p CreditPolicy) clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > p.Max {
		return p.Max
	}
	return score
}

// applyCredit stores the new score together with the rank it maps to.
func applyCredit(db *gorm.DB, profiles repositories.ProfileRepository, configs repositories.ConfigRepository, profileID string, score int) (models.UserRank, error) {
	limits, err := configs.ListRankLimits(db)
	if err != nil {
		return "", err
	}
	rank := models.RankForScore(limits, score)
	if err := profiles.UpdateCredit(db, profileID, score, rank); err != nil {
		return "", err
	}
	return rank, nil
}
