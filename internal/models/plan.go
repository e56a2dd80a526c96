package models

import "strings"

// UnknownPlan is reported when the plan cannot be resolved.
const UnknownPlan = "Unknown"

// Plan is the analytics capability class of a zone subscription.
type Plan int

const (
	PlanUnknown Plan = iota
	PlanFree
	PlanBusiness
)

func (p Plan) String() string {
	switch p {
	case PlanFree:
		return "free"
	case PlanBusiness:
		return "business"
	default:
		return "unknown"
	}
}

// ClassifyPlan maps the provider's plan display name ("Free Website", "Business Website", ...)
// to a tier. Pro and Enterprise are not classified yet and report PlanUnknown.
func ClassifyPlan(name string) Plan {
	switch {
	case strings.Contains(name, "Free Website"):
		return PlanFree
	case strings.Contains(name, "Business"):
		return PlanBusiness
	default:
		return PlanUnknown
	}
}
