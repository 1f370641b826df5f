package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/db"
	"github.com/applyforge/applyforge/internal/llm"
)

// scriptedClient answers by response-format schema name when a script
// entry exists for it, otherwise by call order. Schema dispatch keeps
// concurrent steps deterministic regardless of goroutine interleaving.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	bySchema  map[string]string
	calls     int
	requests  []*llm.Request
}

func (s *scriptedClient) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if req.ResponseFormat != nil {
		if content, ok := s.bySchema[req.ResponseFormat.SchemaName]; ok {
			s.calls++
			return &llm.Response{Content: content, Model: req.Model}, nil
		}
	}
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	return &llm.Response{Content: s.responses[idx], Model: req.Model}, nil
}

func (s *scriptedClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// userPrompts returns the user message of every request made against
// the given schema.
func (s *scriptedClient) userPrompts(schemaName string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prompts []string
	for _, req := range s.requests {
		if req.ResponseFormat == nil || req.ResponseFormat.SchemaName != schemaName {
			continue
		}
		for _, msg := range req.Messages {
			if msg.Role == llm.RoleUser {
				prompts = append(prompts, msg.Content)
			}
		}
	}
	return prompts
}

func (s *scriptedClient) Provider() llm.Provider { return "stub" }
func (s *scriptedClient) Close() error           { return nil }

type fakeStore struct {
	mu        sync.Mutex
	leads     map[string]db.Lead
	listLeads []db.Lead
	artifacts []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[string]db.Lead)}
}

func (f *fakeStore) UpsertLead(ctx context.Context, lead db.Lead) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[lead.DedupeKey] = lead
	return uuid.New(), nil
}

func (f *fakeStore) ListLeads(ctx context.Context, vertical string, limit int) ([]db.Lead, error) {
	return f.listLeads, nil
}

func (f *fakeStore) SaveArtifact(ctx context.Context, step, channel, vertical string, content any) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts = append(f.artifacts, step)
	return uuid.New(), nil
}

func newProcessor(responses []string, store Store) *Processor {
	p, _ := newProcessorWith(&scriptedClient{responses: responses}, store)
	return p
}

func newProcessorWith(client *scriptedClient, store Store) (*Processor, *scriptedClient) {
	return &Processor{
		Agents: agents.NewRuntime(client),
		Store:  store,
	}, client
}

const leadProfileJSON = `{
	"name": "Dana Smith",
	"title": "Principal Recruiter",
	"years_experience": 8,
	"skills": ["technical sourcing", "closing"],
	"work_history": [{"company": "TalentCo", "title": "Principal Recruiter"}]
}`

const outreachDraftJSON = `{
	"message": "Saw your team is scaling hiring. Worth a look?",
	"subject": "Quick question"
}`

func TestProcess_LogWriterReceivesStepLine(t *testing.T) {
	var buf bytes.Buffer
	p := newProcessor([]string{`{}`}, nil)
	p.LogWriter = &buf

	p.Process(context.Background(), Task{Step: "unknown_step"})

	line := buf.String()
	assert.Contains(t, line, "step=unknown_step")
	assert.Contains(t, line, "ok=false")
	assert.Contains(t, line, "duration=")
}

func TestProcess_NilLogWriterStaysSilent(t *testing.T) {
	p := newProcessor([]string{`{}`}, nil)

	// Must not panic without a writer configured.
	result := p.Process(context.Background(), Task{Step: "unknown_step"})
	assert.False(t, result.OK)
}

func TestProcess_UnknownStep(t *testing.T) {
	p := newProcessor([]string{`{}`}, nil)

	result := p.Process(context.Background(), Task{Step: "unknown_step"})
	assert.False(t, result.OK)
	assert.Equal(t, "Unknown step: unknown_step", result.Message)
}

func TestProcess_InvalidPayload(t *testing.T) {
	p := newProcessor([]string{`{}`}, nil)

	result := p.Process(context.Background(), Task{
		Step:    StepContent,
		Payload: json.RawMessage(`{not json`),
	})
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "Invalid payload")
}

func TestProcess_ContentStep(t *testing.T) {
	store := newFakeStore()
	p := newProcessor([]string{`{
		"pieces": [
			{"title": "One", "body": "Body one.", "call_to_action": "Read"},
			{"title": "Two", "body": "Body two.", "call_to_action": "Read"}
		]
	}`}, store)

	payload, _ := json.Marshal(ContentPayload{Topic: "sourcing", Count: 2})
	result := p.Process(context.Background(), Task{
		Step: StepContent, Channel: "linkedin", Vertical: "tech", Payload: payload,
	})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{StepContent}, store.artifacts)
}

func TestProcess_AgentFailurePropagates(t *testing.T) {
	p := newProcessor([]string{`not json`}, newFakeStore())

	result := p.Process(context.Background(), Task{Step: StepStrategy, Vertical: "tech"})
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Message)
}

func TestProcess_FindRecruiters_UpsertsAndSkipsKeyless(t *testing.T) {
	store := newFakeStore()
	p := newProcessor([]string{`{
		"leads": [
			{"name": "Dana Smith", "company": "TalentCo", "title": "Recruiter", "email": "dana@talent.co", "url": ""},
			{"name": "Rene Cruz", "company": "HireWorks", "title": "", "email": "", "url": "https://www.linkedin.com/in/renecruz/"},
			{"name": "Nameless Inc Contact", "company": "", "title": "", "email": "", "url": ""}
		]
	}`}, store)

	payload, _ := json.Marshal(FindRecruitersPayload{SourceData: "directory dump", Limit: 10})
	result := p.Process(context.Background(), Task{
		Step: StepFindRecruiters, Channel: "email", Vertical: "tech", Payload: payload,
	})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 2, result.Count, "keyless lead skipped")
	assert.Contains(t, store.leads, "email:dana@talent.co")
	assert.Contains(t, store.leads, "url:linkedin.com/in/renecruz")
}

func TestProcess_Outreach(t *testing.T) {
	store := newFakeStore()
	store.listLeads = []db.Lead{
		{Name: "Dana Smith", Company: "TalentCo", Title: "Recruiter"},
		{Name: "Rene Cruz", Company: "HireWorks", Title: "Lead Recruiter"},
	}
	p, client := newProcessorWith(&scriptedClient{bySchema: map[string]string{
		"candidate_profile": leadProfileJSON,
		"outreach_message":  outreachDraftJSON,
	}}, store)

	payload, _ := json.Marshal(OutreachPayload{ProductContext: "sourcing tool", Limit: 10})
	result := p.Process(context.Background(), Task{
		Step: StepOutreach, Channel: "email", Vertical: "tech", Payload: payload,
	})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{StepOutreach}, store.artifacts)
	assert.Equal(t, 4, client.callCount(), "each lead is profiled before its draft")
}

func TestProcess_OutreachProfilesLeadBeforeDrafting(t *testing.T) {
	store := newFakeStore()
	store.listLeads = []db.Lead{
		{Name: "Dana Smith", Company: "TalentCo", Title: "Recruiter"},
	}
	p, client := newProcessorWith(&scriptedClient{bySchema: map[string]string{
		"candidate_profile": leadProfileJSON,
		"outreach_message":  outreachDraftJSON,
	}}, store)

	payload, _ := json.Marshal(OutreachPayload{Limit: 5})
	result := p.Process(context.Background(), Task{
		Step: StepOutreach, Channel: "email", Vertical: "tech", Payload: payload,
	})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 2, client.callCount(), "one profile call plus one draft call")

	prompts := client.userPrompts("outreach_message")
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Principal Recruiter", "draft prompt carries the extracted profile")
	assert.Contains(t, prompts[0], "8 years experience")
}

func TestProcess_OutreachSurvivesProfileFailure(t *testing.T) {
	store := newFakeStore()
	store.listLeads = []db.Lead{
		{Name: "Dana Smith", Company: "TalentCo", Title: "Recruiter"},
	}
	p, _ := newProcessorWith(&scriptedClient{bySchema: map[string]string{
		"candidate_profile": `not json`,
		"outreach_message":  outreachDraftJSON,
	}}, store)

	payload, _ := json.Marshal(OutreachPayload{Limit: 5})
	result := p.Process(context.Background(), Task{
		Step: StepOutreach, Channel: "email", Vertical: "tech", Payload: payload,
	})

	require.True(t, result.OK, result.Message)
	assert.Equal(t, 1, result.Count, "lead still drafted without a profile")
}

func TestProcess_OutreachRequiresStore(t *testing.T) {
	p := newProcessor([]string{`{}`}, nil)

	result := p.Process(context.Background(), Task{Step: StepOutreach, Vertical: "tech"})
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "store")
}

func TestDeriveDedupeKey_Preference(t *testing.T) {
	full := agents.RecruiterLead{
		Name: "Dana Smith", Company: "TalentCo",
		Email: "Dana@Talent.co", URL: "HTTPS://www.LinkedIn.com/in/dana/",
	}
	assert.Equal(t, "url:linkedin.com/in/dana", DeriveDedupeKey(full))

	noURL := full
	noURL.URL = ""
	assert.Equal(t, "email:dana@talent.co", DeriveDedupeKey(noURL))

	nameOnly := noURL
	nameOnly.Email = ""
	assert.Equal(t, "name:dana smith|talentco", DeriveDedupeKey(nameOnly))

	assert.Empty(t, DeriveDedupeKey(agents.RecruiterLead{Name: "Dana Smith"}))
	assert.Empty(t, DeriveDedupeKey(agents.RecruiterLead{}))
}

func TestCanonicalURL_VariantsCollapse(t *testing.T) {
	variants := []string{
		"https://linkedin.com/in/dana",
		"http://www.linkedin.com/in/dana/",
		"LINKEDIN.COM/in/dana",
	}
	for _, v := range variants {
		assert.Equal(t, "linkedin.com/in/dana", canonicalURL(v), v)
	}
}
