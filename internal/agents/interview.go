package agents

import (
	"context"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// InterviewInput is an interview preparation request.
type InterviewInput struct {
	RoleTitle      string `validate:"required"`
	CompanyName    string
	JobDescription string
	ProfileSummary string
}

// InterviewQuestion pairs a likely question with answer guidance built
// from the candidate's background.
type InterviewQuestion struct {
	Question string `json:"question"`
	Kind     string `json:"kind"`
	Guidance string `json:"guidance"`
}

// InterviewResult is the prep package.
type InterviewResult struct {
	Questions      []InterviewQuestion `json:"questions"`
	QuestionsToAsk []string            `json:"questions_to_ask"`
}

const (
	maxInterviewQuestions = 12
	maxQuestionsToAsk     = 5
)

var interviewSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "interview_prep",
	Description: "Likely interview questions with answer guidance",
	Fields: []schemas.Field{
		{Name: "questions", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "question", Type: schemas.TypeString, Required: true},
				{Name: "kind", Type: schemas.TypeString, Required: true,
					Enum: []string{"behavioral", "technical"}},
				{Name: "guidance", Type: schemas.TypeString, Required: true},
			}}},
		{Name: "questions_to_ask", Type: schemas.TypeArray, Required: true,
			Description: "Questions the candidate should ask the interviewer",
			Items:       &schemas.Field{Type: schemas.TypeString}},
	},
})

// PrepareInterview generates likely questions and answer guidance.
func (rt *Runtime) PrepareInterview(ctx context.Context, in InterviewInput) Outcome[InterviewResult] {
	return runAgent(ctx, rt, routing.TaskInterviewPrep, in, prepareInterview)
}

func prepareInterview(ctx context.Context, rt *Runtime, in InterviewInput) Outcome[InterviewResult] {
	result, err := completeJSON[InterviewResult](ctx, rt, callSpec{
		Task:   routing.TaskInterviewPrep,
		System: prompts.MustGet("insights.json", "interview-system"),
		User: prompts.Format(prompts.MustGet("insights.json", "interview-user"), map[string]string{
			"RoleTitle":      in.RoleTitle,
			"CompanyName":    in.CompanyName,
			"JobDescription": prompts.TruncateToTokens(prompts.CompressText(in.JobDescription), 2500),
			"Profile":        prompts.TruncateToTokens(prompts.CompressText(in.ProfileSummary), 2500),
		}),
		Schema: interviewSchema,
	})
	if err != nil {
		return outcomeFromError[InterviewResult](err)
	}

	result.Questions = capSlice(result.Questions, maxInterviewQuestions)
	result.QuestionsToAsk = capSlice(result.QuestionsToAsk, maxQuestionsToAsk)
	if len(result.Questions) == 0 {
		return failure[InterviewResult]("No interview questions were generated. Please try again.")
	}
	return success(result)
}
