// Package publish serializes a finalized draft into the backend's ordered
// creation sequence: course, then each section, then each section's content.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openlearn/coursecraft/internal/courseapi"
	"github.com/openlearn/coursecraft/internal/draft"
)

// ErrPublishFailed wraps every publish failure so callers can show one
// generic message regardless of which call in the sequence broke.
var ErrPublishFailed = errors.New("failed to publish course")

// ErrVideoNotReady is returned before any remote call when a video still
// references a pending local file without a resolved URL.
var ErrVideoNotReady = errors.New("video upload not resolved")

// CourseAPI is the slice of the backend client the orchestrator needs.
type CourseAPI interface {
	CreateCourse(ctx context.Context, req courseapi.CreateCourseRequest) (string, error)
	CreateSection(ctx context.Context, courseID, title string) (string, error)
	CreateVideo(ctx context.Context, sectionID string, req courseapi.VideoRequest) error
	CreateQuiz(ctx context.Context, sectionID string, req courseapi.QuizRequest) error
}

// Config holds orchestrator dependencies.
type Config struct {
	API    CourseAPI
	Events EventLogger
	Strict bool // run schema validation before publishing
}

// Orchestrator publishes drafts.
type Orchestrator struct {
	api    CourseAPI
	events EventLogger
	strict bool
}

// Report describes a completed publish.
type Report struct {
	CourseID   string
	SectionIDs []string
	Calls      int
}

// NewOrchestrator creates a publish orchestrator.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("course API is required")
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	return &Orchestrator{
		api:    cfg.API,
		events: events,
		strict: cfg.Strict,
	}, nil
}

// Publish issues the creation sequence for the draft, strictly in
// curriculum order and awaited one call at a time: each section's server ID
// is a precondition for its content calls. The sequence is not
// transactional — a mid-sequence failure leaves the earlier records in
// place, issues no compensating deletes, and keeps the local draft intact
// for another attempt. On success the draft resets to empty.
func (o *Orchestrator) Publish(ctx context.Context, d *draft.Draft, instructorID string) (*Report, error) {
	if o.strict {
		if err := draft.Validate(*d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublishFailed, err)
		}
	}
	if err := checkVideosReady(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	report := &Report{}

	courseID, err := o.api.CreateCourse(ctx, courseapi.CreateCourseRequest{
		Title:        d.Title,
		Description:  d.Description,
		ThumbnailURL: d.ThumbnailURL,
		InstructorID: instructorID,
	})
	if err != nil {
		return nil, o.fail(d, instructorID, report, err)
	}
	report.CourseID = courseID
	report.Calls++

	for _, section := range d.Sections {
		sectionID, err := o.api.CreateSection(ctx, courseID, section.Title)
		if err != nil {
			return nil, o.fail(d, instructorID, report, err)
		}
		report.SectionIDs = append(report.SectionIDs, sectionID)
		report.Calls++

		for _, video := range section.Videos {
			err := o.api.CreateVideo(ctx, sectionID, courseapi.VideoRequest{
				Title:       video.Title,
				Description: video.Description,
				URL:         video.URL,
			})
			if err != nil {
				return nil, o.fail(d, instructorID, report, err)
			}
			report.Calls++
		}

		for _, quiz := range section.Quizzes {
			err := o.api.CreateQuiz(ctx, sectionID, courseapi.QuizRequest{
				Name:      quiz.Name,
				Questions: questionPayloads(quiz.Questions),
			})
			if err != nil {
				return nil, o.fail(d, instructorID, report, err)
			}
			report.Calls++
		}
	}

	if err := o.events.LogEvent(Event{
		DraftID:      d.ID,
		InstructorID: instructorID,
		EventType:    "course_published",
		Data: map[string]any{
			"course_id": report.CourseID,
			"sections":  len(report.SectionIDs),
			"calls":     report.Calls,
		},
	}); err != nil {
		slog.Warn("failed to log publish event", "error", err)
	}

	slog.Info("course published",
		"course_id", report.CourseID,
		"sections", len(report.SectionIDs),
		"calls", report.Calls,
	)

	d.Reset()
	return report, nil
}

func (o *Orchestrator) fail(d *draft.Draft, instructorID string, report *Report, cause error) error {
	if err := o.events.LogEvent(Event{
		DraftID:      d.ID,
		InstructorID: instructorID,
		EventType:    "publish_failed",
		Data: map[string]any{
			"course_id":       report.CourseID,
			"calls_completed": report.Calls,
			"error":           cause.Error(),
		},
	}); err != nil {
		slog.Warn("failed to log publish failure event", "error", err)
	}

	slog.Error("publish aborted",
		"draft_id", d.ID,
		"calls_completed", report.Calls,
		"error", cause,
	)
	return fmt.Errorf("%w: %v", ErrPublishFailed, cause)
}

func checkVideosReady(d *draft.Draft) error {
	for _, section := range d.Sections {
		for _, video := range section.Videos {
			if !video.Ready() {
				return fmt.Errorf("%w: %q in section %q", ErrVideoNotReady, video.Title, section.Title)
			}
		}
	}
	return nil
}

func questionPayloads(questions []draft.Question) []courseapi.QuestionPayload {
	out := make([]courseapi.QuestionPayload, len(questions))
	for i, q := range questions {
		out[i] = courseapi.QuestionPayload{
			Text:    q.Text,
			OptionA: q.OptionA,
			OptionB: q.OptionB,
			OptionC: q.OptionC,
			OptionD: q.OptionD,
			Correct: q.Correct,
		}
	}
	return out
}
