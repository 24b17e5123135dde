package publish_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openlearn/coursecraft/internal/courseapi"
	"github.com/openlearn/coursecraft/internal/draft"
	"github.com/openlearn/coursecraft/internal/publish"
)

// call records one backend request issued by the orchestrator.
type call struct {
	op       string // course, section, video, quiz
	parent   string // course ID for sections, section ID for content
	name     string
	videoURL string
}

// fakeAPI records the call sequence and can fail on a chosen operation.
type fakeAPI struct {
	calls       []call
	nextSection int
	failOn      string // op name to fail on
	failAfter   int    // number of matching ops to allow first
}

func (f *fakeAPI) shouldFail(op string) bool {
	if f.failOn != op {
		return false
	}
	if f.failAfter > 0 {
		f.failAfter--
		return false
	}
	return true
}

func (f *fakeAPI) CreateCourse(_ context.Context, req courseapi.CreateCourseRequest) (string, error) {
	if f.shouldFail("course") {
		return "", errors.New("course create rejected")
	}
	f.calls = append(f.calls, call{op: "course", name: req.Title})
	return "course-1", nil
}

func (f *fakeAPI) CreateSection(_ context.Context, courseID, title string) (string, error) {
	if f.shouldFail("section") {
		return "", errors.New("section create rejected")
	}
	f.nextSection++
	id := fmt.Sprintf("section-%d", f.nextSection)
	f.calls = append(f.calls, call{op: "section", parent: courseID, name: title})
	return id, nil
}

func (f *fakeAPI) CreateVideo(_ context.Context, sectionID string, req courseapi.VideoRequest) error {
	if f.shouldFail("video") {
		return errors.New("video create rejected")
	}
	f.calls = append(f.calls, call{op: "video", parent: sectionID, name: req.Title, videoURL: req.URL})
	return nil
}

func (f *fakeAPI) CreateQuiz(_ context.Context, sectionID string, req courseapi.QuizRequest) error {
	if f.shouldFail("quiz") {
		return errors.New("quiz create rejected")
	}
	f.calls = append(f.calls, call{op: "quiz", parent: sectionID, name: req.Name})
	return nil
}

func introDraft() *draft.Draft {
	d := draft.New("instructor-1")
	d.Title = "Go Fundamentals"
	s := d.AddSection()
	title := "Intro"
	d.UpdateSection(s.ID, draft.SectionPatch{Title: &title})
	v, _ := d.AddVideo(s.ID)
	vTitle, vURL := "Welcome", "videos/abc.mp4"
	d.UpdateVideo(s.ID, v.ID, draft.VideoPatch{Title: &vTitle, URL: &vURL})
	return d
}

func TestPublish_CallSequence(t *testing.T) {
	api := &fakeAPI{}
	o, err := publish.NewOrchestrator(publish.Config{API: api})
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}

	d := introDraft()
	report, err := o.Publish(context.Background(), d, "instructor-1")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []call{
		{op: "course", name: "Go Fundamentals"},
		{op: "section", parent: "course-1", name: "Intro"},
		{op: "video", parent: "section-1", name: "Welcome", videoURL: "videos/abc.mp4"},
	}
	if len(api.calls) != len(want) {
		t.Fatalf("calls = %d, want %d: %+v", len(api.calls), len(want), api.calls)
	}
	for i, w := range want {
		if api.calls[i] != w {
			t.Errorf("calls[%d] = %+v, want %+v", i, api.calls[i], w)
		}
	}

	if report.CourseID != "course-1" {
		t.Errorf("CourseID = %q, want course-1", report.CourseID)
	}
	if report.Calls != 3 {
		t.Errorf("Calls = %d, want 3", report.Calls)
	}
}

func TestPublish_SectionOrderAndQuizzes(t *testing.T) {
	api := &fakeAPI{}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	d := draft.New("instructor-1")
	d.Title = "Structured Course"
	for _, name := range []string{"First", "Second", "Third"} {
		s := d.AddSection()
		title := name
		d.UpdateSection(s.ID, draft.SectionPatch{Title: &title})
	}
	q, _ := d.AddQuiz(d.Sections[1].ID)
	d.AppendQuestions(d.Sections[1].ID, q.ID, []draft.Question{
		{Text: "Q1", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Correct: "B"},
	})

	report, err := o.Publish(context.Background(), d, "instructor-1")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var sectionNames []string
	for _, c := range api.calls {
		if c.op == "section" {
			sectionNames = append(sectionNames, c.name)
		}
	}
	for i, name := range []string{"First", "Second", "Third"} {
		if sectionNames[i] != name {
			t.Errorf("section order[%d] = %q, want %q", i, sectionNames[i], name)
		}
	}

	// The quiz call must follow its own section and target its server ID.
	found := false
	for _, c := range api.calls {
		if c.op == "quiz" {
			found = true
			if c.parent != "section-2" {
				t.Errorf("quiz parent = %q, want section-2", c.parent)
			}
		}
	}
	if !found {
		t.Error("no quiz call issued")
	}
	if len(report.SectionIDs) != 3 {
		t.Errorf("SectionIDs = %d, want 3", len(report.SectionIDs))
	}
}

func TestPublish_ResetsDraftOnSuccess(t *testing.T) {
	api := &fakeAPI{}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	d := introDraft()
	if _, err := o.Publish(context.Background(), d, "instructor-1"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if d.Title != "" || len(d.Sections) != 0 {
		t.Error("draft must reset to empty after a successful publish")
	}
}

func TestPublish_MidSequenceFailureStops(t *testing.T) {
	api := &fakeAPI{failOn: "section", failAfter: 1}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	d := draft.New("instructor-1")
	d.Title = "Doomed Course"
	for i := 0; i < 3; i++ {
		s := d.AddSection()
		d.AddVideo(s.ID)
	}

	_, err := o.Publish(context.Background(), d, "instructor-1")
	if !errors.Is(err, publish.ErrPublishFailed) {
		t.Fatalf("Publish() error = %v, want ErrPublishFailed", err)
	}

	// Course, first section and its video went through; the second section
	// failed and nothing after it was attempted.
	want := []string{"course", "section", "video"}
	if len(api.calls) != len(want) {
		t.Fatalf("calls = %+v, want ops %v", api.calls, want)
	}
	for i, op := range want {
		if api.calls[i].op != op {
			t.Errorf("calls[%d].op = %q, want %q", i, api.calls[i].op, op)
		}
	}

	if d.Title != "Doomed Course" || len(d.Sections) != 3 {
		t.Error("draft must stay intact after a failed publish")
	}
}

func TestPublish_CourseFailureIssuesNothingElse(t *testing.T) {
	api := &fakeAPI{failOn: "course"}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	_, err := o.Publish(context.Background(), introDraft(), "instructor-1")
	if !errors.Is(err, publish.ErrPublishFailed) {
		t.Fatalf("Publish() error = %v, want ErrPublishFailed", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("calls = %+v, want none", api.calls)
	}
}

func TestPublish_UnresolvedVideoBlocksBeforeAnyCall(t *testing.T) {
	api := &fakeAPI{}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	d := introDraft()
	s := d.Sections[0]
	pending := "lecture2.mp4"
	v, _ := d.AddVideo(s.ID)
	d.UpdateVideo(s.ID, v.ID, draft.VideoPatch{PendingFile: &pending})

	_, err := o.Publish(context.Background(), d, "instructor-1")
	if !errors.Is(err, publish.ErrPublishFailed) {
		t.Fatalf("Publish() error = %v, want ErrPublishFailed", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("calls = %+v, want none before readiness check", api.calls)
	}
}

func TestPublish_StrictValidation(t *testing.T) {
	api := &fakeAPI{}
	o, _ := publish.NewOrchestrator(publish.Config{API: api, Strict: true})

	d := introDraft()
	d.Title = ""

	_, err := o.Publish(context.Background(), d, "instructor-1")
	if !errors.Is(err, publish.ErrPublishFailed) {
		t.Fatalf("Publish() error = %v, want ErrPublishFailed", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("calls = %+v, want none when validation rejects", api.calls)
	}
}

func TestPublish_PermissiveDefaultAcceptsIncompleteQuestions(t *testing.T) {
	api := &fakeAPI{}
	o, _ := publish.NewOrchestrator(publish.Config{API: api})

	d := introDraft()
	q, _ := d.AddQuiz(d.Sections[0].ID)
	d.AddQuestion(d.Sections[0].ID, q.ID) // empty question, no options

	if _, err := o.Publish(context.Background(), d, "instructor-1"); err != nil {
		t.Errorf("Publish() error = %v, want nil in permissive mode", err)
	}
}

func TestPublish_LogsEvents(t *testing.T) {
	events := publish.NewMemoryEventLogger()

	t.Run("success", func(t *testing.T) {
		o, _ := publish.NewOrchestrator(publish.Config{API: &fakeAPI{}, Events: events})
		d := introDraft()
		draftID := d.ID
		if _, err := o.Publish(context.Background(), d, "instructor-1"); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		got := events.Events()
		if len(got) != 1 {
			t.Fatalf("events = %d, want 1", len(got))
		}
		if got[0].EventType != "course_published" || got[0].DraftID != draftID {
			t.Errorf("event = %+v, want course_published for %s", got[0], draftID)
		}
	})

	t.Run("failure", func(t *testing.T) {
		o, _ := publish.NewOrchestrator(publish.Config{API: &fakeAPI{failOn: "course"}, Events: events})
		if _, err := o.Publish(context.Background(), introDraft(), "instructor-1"); err == nil {
			t.Fatal("Publish() = nil, want error")
		}

		got := events.Events()
		last := got[len(got)-1]
		if last.EventType != "publish_failed" {
			t.Errorf("EventType = %q, want publish_failed", last.EventType)
		}
	})
}

func TestNewOrchestrator_RequiresAPI(t *testing.T) {
	if _, err := publish.NewOrchestrator(publish.Config{}); err == nil {
		t.Error("NewOrchestrator() without an API should fail")
	}
}
