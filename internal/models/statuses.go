package models

type UserRole string
type UserRank string
type JobStatus string
type Complexity string
type ReviewDecision string
type ReviewAction string
type BalanceEntryType string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleCTV     UserRole = "ctv"

	RankNewbie  UserRank = "newbie"
	RankRegular UserRank = "regular"
	RankTrusted UserRank = "trusted"
	RankExpert  UserRank = "expert"

	JobStatusAvailable JobStatus = "available"
	JobStatusLocked    JobStatus = "locked"
	JobStatusSubmitted JobStatus = "submitted"
	JobStatusApproved  JobStatus = "approved"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusDisputed  JobStatus = "disputed"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"

	ComplexityEasy   Complexity = "easy"
	ComplexityMedium Complexity = "medium"
	ComplexityHard   Complexity = "hard"
	ComplexityExpert Complexity = "expert"

	ReviewDecisionApproved          ReviewDecision = "approved"
	ReviewDecisionRejected          ReviewDecision = "rejected"
	ReviewDecisionRevisionRequested ReviewDecision = "revision_requested"

	ReviewActionApprove         ReviewAction = "approve"
	ReviewActionReject          ReviewAction = "reject"
	ReviewActionRequestRevision ReviewAction = "request_revision"

	BalanceEntryJobPayout BalanceEntryType = "job_payout"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleCTV:
		return true
	}
	return false
}

// IsStaff reports whether the role may create and review jobs.
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}

func (r UserRank) IsValid() bool {
	switch r {
	case RankNewbie, RankRegular, RankTrusted, RankExpert:
		return true
	}
	return false
}

func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityEasy, ComplexityMedium, ComplexityHard, ComplexityExpert:
		return true
	}
	return false
}

func (a ReviewAction) IsValid() bool {
	switch a {
	case ReviewActionApprove, ReviewActionReject, ReviewActionRequestRevision:
		return true
	}
	return false
}

// Decision maps a review action to the decision recorded on the submission.
func (a ReviewAction) Decision() ReviewDecision {
	switch a {
	case ReviewActionApprove:
		return ReviewDecisionApproved
	case ReviewActionRequestRevision:
		return ReviewDecisionRevisionRequested
	default:
		return ReviewDecisionRejected
	}
}

// JobStatus returns the job status a review action leads to.
// Reject and request_revision both land on rejected.
func (a ReviewAction) JobStatus() JobStatus {
	if a == ReviewActionApprove {
		return JobStatusApproved
	}
	return JobStatusRejected
}

// jobTransitions lists the normal-flow edges of the job state machine.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusAvailable: {JobStatusLocked},
	JobStatusLocked:    {JobStatusAvailable, JobStatusSubmitted},
	JobStatusSubmitted: {JobStatusApproved, JobStatusRejected},
	JobStatusRejected:  {JobStatusSubmitted},
	JobStatusApproved:  {JobStatusCompleted},
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusAvailable, JobStatusLocked, JobStatusSubmitted, JobStatusApproved,
		JobStatusRejected, JobStatusDisputed, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// HasHolder reports whether a job in this status carries locked_by/locked_at/deadline.
func (s JobStatus) HasHolder() bool {
	switch s {
	case JobStatusLocked, JobStatusSubmitted, JobStatusApproved, JobStatusRejected, JobStatusCompleted:
		return true
	}
	return false
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if next == JobStatusCancelled || next == JobStatusDisputed {
		return s.CanEscalateTo(next)
	}
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanEscalateTo covers the administrative edges: any pre-completion state
// may be cancelled or disputed, a disputed job may still be cancelled.
func (s JobStatus) CanEscalateTo(next JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case JobStatusCancelled:
		return true
	case JobStatusDisputed:
		return s != JobStatusDisputed
	}
	return false
}
