package workflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/spigell/resume-flow/internal/api"
	"github.com/spigell/resume-flow/internal/mode"
	"github.com/spigell/resume-flow/internal/resume"
)

type recordedRender struct {
	section string
	payload any
}

type recordingView struct {
	mu      sync.Mutex
	renders []recordedRender
	pages   []string
	err     error
}

func (v *recordingView) Render(section string, payload any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, recordedRender{section: section, payload: payload})
	return v.err
}

func (v *recordingView) Navigate(page string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pages = append(v.pages, page)
	return v.err
}

type countingClient struct {
	Client
	calls int
}

func (c *countingClient) UploadResume(ctx context.Context, file *resume.File) (*api.UploadResult, error) {
	c.calls++
	return c.Client.UploadResume(ctx, file)
}

func (c *countingClient) AnalyzeResume(ctx context.Context, info *resume.Info) (*api.Analysis, error) {
	c.calls++
	return c.Client.AnalyzeResume(ctx, info)
}

func (c *countingClient) MatchJob(ctx context.Context, info *resume.Info, jd string) (*api.MatchOutcome, error) {
	c.calls++
	return c.Client.MatchJob(ctx, info, jd)
}

func newMockWorkflow(t *testing.T) (*Workflow, *countingClient, *recordingView) {
	t.Helper()

	client, err := api.New(api.Config{Mode: mode.Mock}, nil)
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	counting := &countingClient{Client: client}
	view := &recordingView{}
	return New(counting, NewState(NewMemoryStore(), nil), view, nil), counting, view
}

func cvFile() *resume.File {
	return &resume.File{Name: "cv.pdf", Size: 1024, Content: strings.NewReader("%PDF")}
}

func TestUploadStoresResume(t *testing.T) {
	wf, _, view := newMockWorkflow(t)

	result, err := wf.Upload(context.Background(), cvFile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{"name": "cv.pdf", "size": float64(1024)}
	if !reflect.DeepEqual(result.Info.Raw, want) {
		t.Fatalf("unexpected resume_info: %+v", result.Info.Raw)
	}

	stored := wf.State().Load()
	if stored == nil || !reflect.DeepEqual(stored.Raw, want) {
		t.Fatalf("expected slot to hold %+v, got %+v", want, stored)
	}

	if len(view.renders) != 1 || view.renders[0].section != SectionUpload {
		t.Fatalf("expected upload to be rendered, got %+v", view.renders)
	}
}

func TestAnalyzeAndMatchRequireResume(t *testing.T) {
	wf, client, view := newMockWorkflow(t)

	if _, err := wf.Analyze(context.Background()); !errors.Is(err, ErrNoResume) {
		t.Fatalf("expected ErrNoResume, got %v", err)
	}
	if _, err := wf.Match(context.Background(), "backend engineer"); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}

	if client.calls != 0 {
		t.Fatalf("expected no client calls, got %d", client.calls)
	}
	if len(view.renders) != 0 {
		t.Fatalf("expected nothing rendered, got %+v", view.renders)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	wf, client, _ := newMockWorkflow(t)

	if _, err := wf.Upload(context.Background(), nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected no client calls, got %d", client.calls)
	}
}

func TestMatchRequiresJobDescription(t *testing.T) {
	wf, client, _ := newMockWorkflow(t)

	if _, err := wf.Upload(context.Background(), cvFile()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := wf.Match(context.Background(), "   "); !errors.Is(err, ErrEmptyJobDescription) {
		t.Fatalf("expected ErrEmptyJobDescription, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected only the upload call, got %d", client.calls)
	}
}

func TestAnalyzeAfterUpload(t *testing.T) {
	wf, _, view := newMockWorkflow(t)

	if _, err := wf.Upload(context.Background(), cvFile()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	analysis, err := wf.Analyze(context.Background())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	want := map[string]any{"score": float64(92), "keywords": []any{"Python", "Streamlit", "FastAPI"}}
	if !reflect.DeepEqual(analysis.Raw, want) {
		t.Fatalf("unexpected analysis: %+v", analysis.Raw)
	}

	last := view.renders[len(view.renders)-1]
	if last.section != SectionAnalysis || !reflect.DeepEqual(last.payload, want) {
		t.Fatalf("unexpected render: %+v", last)
	}

	if phase := wf.State().Phase(); !phase.Analyzed || phase.Matched {
		t.Fatalf("unexpected phase: %+v", phase)
	}
}

func TestLiveMatchForwardsBodyVerbatim(t *testing.T) {
	var (
		mu      sync.Mutex
		matches int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/match/resume" {
			mu.Lock()
			matches++
			mu.Unlock()
		}
		_, _ = w.Write([]byte(`{"match_result":{"percent":55,"missing":["Go"]},"cached":false}`))
	}))
	defer server.Close()

	client, err := api.New(api.Config{Mode: mode.Live, BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	view := &recordingView{}
	state := NewState(nil, nil)
	if err := state.Save(resume.NewInfo(map[string]any{"name": "cv.pdf", "size": float64(1024)})); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	wf := New(client, state, view, nil)
	if _, err := wf.Match(context.Background(), "backend engineer"); err != nil {
		t.Fatalf("match: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if matches != 1 {
		t.Fatalf("expected exactly one match request, got %d", matches)
	}

	want := map[string]any{
		"match_result": map[string]any{"percent": float64(55), "missing": []any{"Go"}},
		"cached":       false,
	}
	if len(view.renders) != 1 || !reflect.DeepEqual(view.renders[0].payload, want) {
		t.Fatalf("expected verbatim body to be rendered, got %+v", view.renders)
	}
}

func TestLiveUploadFailureKeepsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := api.New(api.Config{Mode: mode.Live, BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	server.Close()

	state := NewState(nil, nil)
	previous := resume.NewInfo(map[string]any{"name": "old.pdf"})
	if err := state.Save(previous); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	view := &recordingView{}
	wf := New(client, state, view, nil)

	_, err = wf.Upload(context.Background(), cvFile())
	var transportErr *api.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if got := state.Load(); got == nil || got.Name != "old.pdf" {
		t.Fatalf("expected slot to be unchanged, got %+v", got)
	}
	if len(view.renders) != 0 {
		t.Fatalf("expected nothing rendered, got %+v", view.renders)
	}
}

type scriptedClient struct {
	Client
	uploads chan *api.UploadResult
}

func (c *scriptedClient) UploadResume(context.Context, *resume.File) (*api.UploadResult, error) {
	return <-c.uploads, nil
}

func TestStaleUploadDoesNotOverwriteNewer(t *testing.T) {
	first := make(chan *api.UploadResult)
	second := make(chan *api.UploadResult)

	state := NewState(nil, nil)
	view := &recordingView{}
	wfFirst := New(&scriptedClient{uploads: first}, state, view, nil)
	wfSecond := New(&scriptedClient{uploads: second}, state, view, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = wfFirst.Upload(context.Background(), cvFile())
	}()

	// The first upload takes its ticket before the second one starts.
	waitForTickets(state, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = wfSecond.Upload(context.Background(), cvFile())
	}()
	waitForTickets(state, 2)

	second <- &api.UploadResult{Info: resume.NewInfo(map[string]any{"name": "second.pdf"}), Raw: map[string]any{}}
	first <- &api.UploadResult{Info: resume.NewInfo(map[string]any{"name": "first.pdf"}), Raw: map[string]any{}}
	wg.Wait()

	if got := state.Load(); got == nil || got.Name != "second.pdf" {
		t.Fatalf("expected the newer upload to win, got %+v", got)
	}
	if len(view.renders) != 2 {
		t.Fatalf("expected both results to be rendered, got %d", len(view.renders))
	}
}

func waitForTickets(state *State, n Ticket) {
	for {
		state.mu.Lock()
		issued := state.issued
		state.mu.Unlock()
		if issued >= n {
			return
		}
		runtime.Gosched()
	}
}

func TestUploadWithoutResumeInfoKeepsPrevious(t *testing.T) {
	uploads := make(chan *api.UploadResult, 1)
	uploads <- &api.UploadResult{Raw: map[string]any{"detail": "not a pdf"}}

	state := NewState(nil, nil)
	if err := state.Save(resume.NewInfo(map[string]any{"name": "old.pdf"})); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	wf := New(&scriptedClient{uploads: uploads}, state, nil, nil)
	if _, err := wf.Upload(context.Background(), cvFile()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := state.Load(); got.Name != "old.pdf" {
		t.Fatalf("expected previous resume to stay, got %s", got.Name)
	}
}

func TestRenderFailureIsReported(t *testing.T) {
	wf, _, view := newMockWorkflow(t)
	view.err = errors.New("terminal closed")

	result, err := wf.Upload(context.Background(), cvFile())
	if err == nil || !strings.Contains(err.Error(), "render uploadResult") {
		t.Fatalf("expected render error, got %v", err)
	}
	if result == nil || wf.State().Load() == nil {
		t.Fatalf("expected result and stored resume despite render failure")
	}

	if err := wf.Navigate(PageAnalysis); err == nil {
		t.Fatalf("expected navigate error")
	}
}

func TestConcurrentMatchesShareResume(t *testing.T) {
	client, err := api.New(api.Config{Mode: mode.Mock}, nil)
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}
	view := &recordingView{}
	wf := New(client, NewState(NewMemoryStore(), nil), view, nil)

	if _, err := wf.Upload(context.Background(), cvFile()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	jds := []string{"Go developer", "Python developer", "SRE"}
	errs := make(chan error, len(jds))
	var wg sync.WaitGroup
	for _, jd := range jds {
		jd := jd
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := wf.Match(context.Background(), jd)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("match: %v", err)
		}
	}

	if phase := wf.State().Phase(); !phase.Matched {
		t.Fatalf("expected matched phase, got %s", phase)
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	matches := 0
	for _, r := range view.renders {
		if r.section == SectionMatch {
			matches++
		}
	}
	if matches != len(jds) {
		t.Fatalf("expected %d match renders, got %d", len(jds), matches)
	}
}
