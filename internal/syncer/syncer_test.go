package syncer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"voicesync/internal/clients"
	"voicesync/internal/render"
	"voicesync/internal/tools"
	"voicesync/internal/ultravox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records []clients.Client
	listErr error
	markErr error
	marked  []string
}

func (f *fakeStore) List(_ context.Context, filt clients.Filter) ([]clients.Client, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []clients.Client
	for _, c := range f.records {
		switch {
		case filt.AgentID != "" && c.UltravoxAgentID != filt.AgentID:
		case filt.Name != "" && c.Name != filt.Name:
		case filt.ID != "" && c.ID != filt.ID:
		default:
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkSynced(_ context.Context, id string, _ time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakePlatform struct {
	agents    map[string]*ultravox.Agent
	fetchErr  error
	updateErr error
	updates   []ultravox.AgentUpdate
}

func (f *fakePlatform) FetchAgent(_ context.Context, agentID string) (*ultravox.Agent, bool, error) {
	if f.fetchErr != nil {
		return nil, false, f.fetchErr
	}
	a, ok := f.agents[agentID]
	if !ok {
		return nil, false, nil
	}
	copied := *a
	return &copied, true, nil
}

func (f *fakePlatform) UpdateAgent(_ context.Context, agentID string, upd ultravox.AgentUpdate) (*ultravox.Agent, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, upd)
	a := f.agents[agentID]
	a.CallTemplate.SystemPrompt = upd.SystemPrompt
	if upd.Voice != "" {
		a.CallTemplate.Voice = upd.Voice
	}
	if upd.SelectedTools != nil {
		a.CallTemplate.SelectedTools = upd.SelectedTools
	}
	return a, nil
}

func newSyncer(store *fakeStore, platform *fakePlatform, dryRun bool) *Syncer {
	return New(store, platform,
		&tools.Builder{Catalog: tools.DefaultCatalog(), CorpusMaxResults: 5},
		render.NewWriter(&bytes.Buffer{}),
		Options{DryRun: dryRun})
}

func testClient() clients.Client {
	return clients.Client{
		ID:              "client-1",
		Name:            "Humber Vet",
		SystemPrompt:    "Use coldTransfer if needed",
		UltravoxAgentID: "agent-1",
	}
}

func desiredTools(t *testing.T, c clients.Client) []ultravox.SelectedTool {
	t.Helper()
	b := &tools.Builder{Catalog: tools.DefaultCatalog(), CorpusMaxResults: 5}
	return b.Build(c.SystemPrompt, c.CorpusID, c.CorpusMaxResults)
}

func TestRunAlreadySynced(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt:  c.SystemPrompt,
			Voice:         "Jessica",
			SelectedTools: desiredTools(t, c),
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{AlreadySynced: 1}, totals)
	assert.Empty(t, platform.updates)
	assert.Empty(t, store.marked)
}

func TestRunPermutedToolsIsNotADiff(t *testing.T) {
	c := testClient()
	desired := desiredTools(t, c)
	require.Len(t, desired, 3)
	permuted := []ultravox.SelectedTool{desired[2], desired[0], desired[1]}

	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt:  c.SystemPrompt,
			Voice:         "Jessica",
			SelectedTools: permuted,
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{AlreadySynced: 1}, totals)
}

func TestRunUpdatesAndMarksSynced(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt: "stale prompt",
			Voice:        "Mark",
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Updated: 1}, totals)
	require.Len(t, platform.updates, 1)
	assert.Equal(t, c.SystemPrompt, platform.updates[0].SystemPrompt)
	assert.Equal(t, "Jessica", platform.updates[0].Voice)
	assert.NotNil(t, platform.updates[0].SelectedTools)
	assert.Equal(t, []string{"client-1"}, store.marked)
}

func TestRunIsIdempotent(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt: "stale prompt",
		}},
	}}
	s := newSyncer(store, platform, false)

	totals, err := s.Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Updated)

	totals, err = s.Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{AlreadySynced: 1}, totals)
	assert.Len(t, platform.updates, 1, "second run must not push again")
}

func TestRunOmitsToolsWhenOnlyPromptDiffers(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt:  "stale prompt",
			Voice:         "Jessica",
			SelectedTools: desiredTools(t, c),
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Updated)
	require.Len(t, platform.updates, 1)
	assert.Nil(t, platform.updates[0].SelectedTools, "unchanged tools must be omitted from the patch")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt: "stale prompt",
		}},
	}}

	totals, err := newSyncer(store, platform, true).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{WouldUpdate: 1}, totals)
	assert.Empty(t, platform.updates)
	assert.Empty(t, store.marked)
}

func TestRunAgentNotFound(t *testing.T) {
	store := &fakeStore{records: []clients.Client{testClient()}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Errors: 1}, totals)
	assert.Empty(t, store.marked, "not-found must not touch storage")
}

func TestRunFetchErrorIsPerRecord(t *testing.T) {
	broken := testClient()
	healthy := testClient()
	healthy.ID = "client-2"
	healthy.Name = "Other Vet"
	healthy.UltravoxAgentID = "agent-2"

	store := &fakeStore{records: []clients.Client{broken, healthy}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-2": {AgentID: "agent-2", CallTemplate: ultravox.CallTemplate{
			SystemPrompt: "stale",
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Errors)
	assert.Equal(t, 1, totals.Updated, "an error on one record must not stop the batch")
}

func TestRunSkipsMissingAgentIDAndPrompt(t *testing.T) {
	noAgent := testClient()
	noAgent.UltravoxAgentID = ""
	noPrompt := testClient()
	noPrompt.ID = "client-2"
	noPrompt.SystemPrompt = ""

	store := &fakeStore{records: []clients.Client{noAgent, noPrompt}}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Skipped: 2}, totals)
}

func TestRunEmptySelectionFails(t *testing.T) {
	store := &fakeStore{}
	platform := &fakePlatform{}

	_, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{Name: "No Such Vet"})
	assert.ErrorIs(t, err, ErrNoClients)
}

func TestRunWriteBackFailureStillCountsAsUpdated(t *testing.T) {
	c := testClient()
	store := &fakeStore{
		records: []clients.Client{c},
		markErr: errors.New("database unreachable"),
	}
	platform := &fakePlatform{agents: map[string]*ultravox.Agent{
		"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
			SystemPrompt: "stale prompt",
		}},
	}}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Updated: 1}, totals)
	assert.Len(t, platform.updates, 1)
}

func TestRunUpdateErrorIsAnErrorOutcome(t *testing.T) {
	c := testClient()
	store := &fakeStore{records: []clients.Client{c}}
	platform := &fakePlatform{
		agents: map[string]*ultravox.Agent{
			"agent-1": {AgentID: "agent-1", CallTemplate: ultravox.CallTemplate{
				SystemPrompt: "stale prompt",
			}},
		},
		updateErr: errors.New("502 bad gateway"),
	}

	totals, err := newSyncer(store, platform, false).Run(context.Background(), clients.Filter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Errors: 1}, totals)
	assert.Empty(t, store.marked)
}
