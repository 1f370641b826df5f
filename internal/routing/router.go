// Package routing maps agent tasks to model tiers and tracks model usage.
// Misrouting a task to a cheaper tier is a cost/quality issue, not a
// correctness one, so unknown tasks fall back to the cheapest tier.
package routing

// Tier represents the complexity/capability level of a model.
type Tier string

const (
	// TierLite is for simple tasks: classification, extraction, basic summarization.
	TierLite Tier = "lite"
	// TierStandard is for moderate reasoning: scoring, structured analysis.
	TierStandard Tier = "standard"
	// TierAdvanced is for complex reasoning: long-form writing, planning.
	TierAdvanced Tier = "advanced"
)

// Task identifiers for every agent invocation path.
const (
	TaskTailorResume      = "tailor_resume"
	TaskCoverLetter       = "cover_letter"
	TaskProfileExtract    = "profile_extract"
	TaskResumeRoast       = "resume_roast"
	TaskQualifyMatch      = "qualify_match"
	TaskPredictSuccess    = "predict_success"
	TaskSkillGap          = "skill_gap"
	TaskPivotAnalysis     = "pivot_analysis"
	TaskInterviewPrep     = "interview_prep"
	TaskJDBuilder         = "jd_builder"
	TaskGTMContent        = "gtm_content"
	TaskGTMStrategy       = "gtm_strategy"
	TaskGTMReport         = "gtm_report"
	TaskFindRecruiters    = "find_recruiters"
	TaskRecruiterOutreach = "recruiter_outreach"
)

// taskTiers is the static task-to-tier routing table.
var taskTiers = map[string]Tier{
	TaskTailorResume:      TierAdvanced,
	TaskCoverLetter:       TierAdvanced,
	TaskProfileExtract:    TierStandard,
	TaskResumeRoast:       TierStandard,
	TaskQualifyMatch:      TierStandard,
	TaskPredictSuccess:    TierStandard,
	TaskSkillGap:          TierStandard,
	TaskPivotAnalysis:     TierAdvanced,
	TaskInterviewPrep:     TierStandard,
	TaskJDBuilder:         TierStandard,
	TaskGTMContent:        TierStandard,
	TaskGTMStrategy:       TierStandard,
	TaskGTMReport:         TierLite,
	TaskFindRecruiters:    TierLite,
	TaskRecruiterOutreach: TierStandard,
}

// TierFor returns the tier a task routes to. Unknown tasks route to
// TierLite rather than failing.
func TierFor(task string) Tier {
	if tier, ok := taskTiers[task]; ok {
		return tier
	}
	return TierLite
}

// Router resolves tasks to concrete model identifiers.
type Router struct {
	models map[Tier]string
}

// DefaultModels returns the default tier-to-model mapping for the
// OpenAI-compatible provider.
func DefaultModels() map[Tier]string {
	return map[Tier]string{
		TierLite:     "gpt-4o-mini",
		TierStandard: "gpt-4o-mini",
		TierAdvanced: "gpt-4o",
	}
}

// NewRouter creates a router over the given tier-to-model mapping.
// A nil mapping uses DefaultModels.
func NewRouter(models map[Tier]string) *Router {
	if models == nil {
		models = DefaultModels()
	}
	return &Router{models: models}
}

// ModelForTier returns the model configured for a tier, falling back
// through standard and lite when the tier is unmapped.
func (r *Router) ModelForTier(tier Tier) string {
	if model, ok := r.models[tier]; ok {
		return model
	}
	if model, ok := r.models[TierStandard]; ok {
		return model
	}
	if model, ok := r.models[TierLite]; ok {
		return model
	}
	return ""
}

// ModelFor returns the model a task routes to.
func (r *Router) ModelFor(task string) string {
	return r.ModelForTier(TierFor(task))
}

// WithModel returns a new Router with one tier remapped; the receiver
// is unchanged.
func (r *Router) WithModel(tier Tier, model string) *Router {
	models := make(map[Tier]string, len(r.models))
	for k, v := range r.models {
		models[k] = v
	}
	models[tier] = model
	return &Router{models: models}
}
