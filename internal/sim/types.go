package sim

import "partnersim/pkg/domain"

type (
	Status             = domain.Status
	Sex                = domain.Sex
	Person             = domain.Person
	Config             = domain.Config
	SeedPerson         = domain.SeedPerson
	SeedTable          = domain.SeedTable
	TickSnapshot       = domain.TickSnapshot
	History            = domain.History
	RunRecord          = domain.RunRecord
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	StatusChild           = domain.StatusChild
	StatusTrainee         = domain.StatusTrainee
	StatusPartnerActive   = domain.StatusPartnerActive
	StatusPartnerEmeritus = domain.StatusPartnerEmeritus
	StatusWashout         = domain.StatusWashout
	StatusDeceased        = domain.StatusDeceased
)

const (
	SexMale   = domain.SexMale
	SexFemale = domain.SexFemale
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
)
