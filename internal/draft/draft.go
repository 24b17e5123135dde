package draft

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New creates an empty draft for the given instructor.
func New(instructorID string) *Draft {
	return &Draft{
		ID:           uuid.NewString(),
		InstructorID: instructorID,
		CreatedAt:    time.Now(),
		Sections:     []Section{},
	}
}

// SectionPatch carries partial section updates; nil fields are left alone.
type SectionPatch struct {
	Title *string
}

// VideoPatch carries partial video updates; nil fields are left alone.
type VideoPatch struct {
	Title       *string
	Description *string
	URL         *string
	PendingFile *string
}

// QuizPatch carries partial quiz updates; nil fields are left alone.
type QuizPatch struct {
	Name *string
}

// TextPatch carries partial text-block updates; nil fields are left alone.
type TextPatch struct {
	Title *string
	Body  *string
}

// QuestionPatch carries partial question updates; nil fields are left alone.
type QuestionPatch struct {
	Text    *string
	OptionA *string
	OptionB *string
	OptionC *string
	OptionD *string
	Correct *string
}

// AddSection appends a new section titled "Section {n+1}" and returns it.
func (d *Draft) AddSection() Section {
	s := Section{
		ID:      uuid.NewString(),
		Title:   fmt.Sprintf("Section %d", len(d.Sections)+1),
		Videos:  []Video{},
		Quizzes: []Quiz{},
	}
	sections := make([]Section, 0, len(d.Sections)+1)
	sections = append(sections, d.Sections...)
	d.Sections = append(sections, s)
	return s
}

// UpdateSection merges patch fields into the matching section. A missing ID
// is a no-op.
func (d *Draft) UpdateSection(sectionID string, patch SectionPatch) {
	d.mapSection(sectionID, func(s Section) Section {
		if patch.Title != nil {
			s.Title = *patch.Title
		}
		return s
	})
}

// DeleteSection removes the section, preserving the order of the rest.
func (d *Draft) DeleteSection(sectionID string) {
	out := make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if s.ID != sectionID {
			out = append(out, s)
		}
	}
	d.Sections = out
}

// MoveSection moves the section at oldIndex to newIndex with a stable
// array move. Equal or out-of-range indexes are a no-op.
func (d *Draft) MoveSection(oldIndex, newIndex int) {
	d.Sections = moveSection(d.Sections, oldIndex, newIndex)
}

// moveSection returns a new slice with the element at oldIndex moved to
// newIndex; the relative order of all other elements is preserved.
func moveSection(sections []Section, oldIndex, newIndex int) []Section {
	n := len(sections)
	if oldIndex == newIndex || oldIndex < 0 || newIndex < 0 || oldIndex >= n || newIndex >= n {
		return sections
	}
	out := make([]Section, 0, n)
	out = append(out, sections[:oldIndex]...)
	out = append(out, sections[oldIndex+1:]...)
	moved := sections[oldIndex]
	out = append(out[:newIndex], append([]Section{moved}, out[newIndex:]...)...)
	return out
}

// AddVideo appends a new video titled "New Video" to the section.
func (d *Draft) AddVideo(sectionID string) (Video, bool) {
	v := Video{ID: uuid.NewString(), Title: "New Video"}
	ok := d.mapSection(sectionID, func(s Section) Section {
		videos := make([]Video, 0, len(s.Videos)+1)
		videos = append(videos, s.Videos...)
		s.Videos = append(videos, v)
		return s
	})
	return v, ok
}

// UpdateVideo merges patch fields into the matching video.
func (d *Draft) UpdateVideo(sectionID, videoID string, patch VideoPatch) {
	d.mapSection(sectionID, func(s Section) Section {
		videos := make([]Video, len(s.Videos))
		for i, v := range s.Videos {
			if v.ID == videoID {
				if patch.Title != nil {
					v.Title = *patch.Title
				}
				if patch.Description != nil {
					v.Description = *patch.Description
				}
				if patch.URL != nil {
					v.URL = *patch.URL
				}
				if patch.PendingFile != nil {
					v.PendingFile = *patch.PendingFile
				}
			}
			videos[i] = v
		}
		s.Videos = videos
		return s
	})
}

// DeleteVideo removes the video from the section.
func (d *Draft) DeleteVideo(sectionID, videoID string) {
	d.mapSection(sectionID, func(s Section) Section {
		videos := make([]Video, 0, len(s.Videos))
		for _, v := range s.Videos {
			if v.ID != videoID {
				videos = append(videos, v)
			}
		}
		s.Videos = videos
		return s
	})
}

// AddQuiz appends a new quiz named "New Quiz" to the section.
func (d *Draft) AddQuiz(sectionID string) (Quiz, bool) {
	q := Quiz{ID: uuid.NewString(), Name: "New Quiz", Questions: []Question{}}
	ok := d.mapSection(sectionID, func(s Section) Section {
		quizzes := make([]Quiz, 0, len(s.Quizzes)+1)
		quizzes = append(quizzes, s.Quizzes...)
		s.Quizzes = append(quizzes, q)
		return s
	})
	return q, ok
}

// UpdateQuiz merges patch fields into the matching quiz.
func (d *Draft) UpdateQuiz(sectionID, quizID string, patch QuizPatch) {
	d.mapQuiz(sectionID, quizID, func(q Quiz) Quiz {
		if patch.Name != nil {
			q.Name = *patch.Name
		}
		return q
	})
}

// DeleteQuiz removes the quiz from the section.
func (d *Draft) DeleteQuiz(sectionID, quizID string) {
	d.mapSection(sectionID, func(s Section) Section {
		quizzes := make([]Quiz, 0, len(s.Quizzes))
		for _, q := range s.Quizzes {
			if q.ID != quizID {
				quizzes = append(quizzes, q)
			}
		}
		s.Quizzes = quizzes
		return s
	})
}

// AddText appends a new text block titled "New Text" to the section.
func (d *Draft) AddText(sectionID string) (TextBlock, bool) {
	tb := TextBlock{ID: uuid.NewString(), Title: "New Text"}
	ok := d.mapSection(sectionID, func(s Section) Section {
		texts := make([]TextBlock, 0, len(s.Texts)+1)
		texts = append(texts, s.Texts...)
		s.Texts = append(texts, tb)
		return s
	})
	return tb, ok
}

// UpdateText merges patch fields into the matching text block.
func (d *Draft) UpdateText(sectionID, textID string, patch TextPatch) {
	d.mapSection(sectionID, func(s Section) Section {
		texts := make([]TextBlock, len(s.Texts))
		for i, tb := range s.Texts {
			if tb.ID == textID {
				if patch.Title != nil {
					tb.Title = *patch.Title
				}
				if patch.Body != nil {
					tb.Body = *patch.Body
				}
			}
			texts[i] = tb
		}
		s.Texts = texts
		return s
	})
}

// DeleteText removes the text block from the section.
func (d *Draft) DeleteText(sectionID, textID string) {
	d.mapSection(sectionID, func(s Section) Section {
		texts := make([]TextBlock, 0, len(s.Texts))
		for _, tb := range s.Texts {
			if tb.ID != textID {
				texts = append(texts, tb)
			}
		}
		s.Texts = texts
		return s
	})
}

// AddQuestion appends an empty question to the quiz. Returns false if the
// section or quiz is missing.
func (d *Draft) AddQuestion(sectionID, quizID string) bool {
	return d.mapQuiz(sectionID, quizID, func(q Quiz) Quiz {
		questions := make([]Question, 0, len(q.Questions)+1)
		questions = append(questions, q.Questions...)
		q.Questions = append(questions, Question{})
		return q
	})
}

// AppendQuestions appends pre-built questions, e.g. from a spreadsheet
// import, to the quiz.
func (d *Draft) AppendQuestions(sectionID, quizID string, questions []Question) bool {
	return d.mapQuiz(sectionID, quizID, func(q Quiz) Quiz {
		merged := make([]Question, 0, len(q.Questions)+len(questions))
		merged = append(merged, q.Questions...)
		q.Questions = append(merged, questions...)
		return q
	})
}

// UpdateQuestion merges patch fields into the question at index. An
// out-of-range index is a no-op.
func (d *Draft) UpdateQuestion(sectionID, quizID string, index int, patch QuestionPatch) {
	d.mapQuiz(sectionID, quizID, func(q Quiz) Quiz {
		if index < 0 || index >= len(q.Questions) {
			return q
		}
		questions := make([]Question, len(q.Questions))
		copy(questions, q.Questions)
		question := questions[index]
		if patch.Text != nil {
			question.Text = *patch.Text
		}
		if patch.OptionA != nil {
			question.OptionA = *patch.OptionA
		}
		if patch.OptionB != nil {
			question.OptionB = *patch.OptionB
		}
		if patch.OptionC != nil {
			question.OptionC = *patch.OptionC
		}
		if patch.OptionD != nil {
			question.OptionD = *patch.OptionD
		}
		if patch.Correct != nil {
			question.Correct = *patch.Correct
		}
		questions[index] = question
		q.Questions = questions
		return q
	})
}

// DeleteQuestion removes the question at index. An out-of-range index is a
// no-op.
func (d *Draft) DeleteQuestion(sectionID, quizID string, index int) {
	d.mapQuiz(sectionID, quizID, func(q Quiz) Quiz {
		if index < 0 || index >= len(q.Questions) {
			return q
		}
		questions := make([]Question, 0, len(q.Questions)-1)
		questions = append(questions, q.Questions[:index]...)
		questions = append(questions, q.Questions[index+1:]...)
		q.Questions = questions
		return q
	})
}

// Section returns the section with the given ID.
func (d *Draft) Section(sectionID string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == sectionID {
			return s, true
		}
	}
	return Section{}, false
}

// Reset clears the draft back to its initial empty state. Called after a
// successful publish.
func (d *Draft) Reset() {
	d.Title = ""
	d.Description = ""
	d.ThumbnailURL = ""
	d.Sections = []Section{}
}

// mapSection rebuilds the section list, applying fn to the section with the
// matching ID. Returns false if no section matched.
func (d *Draft) mapSection(sectionID string, fn func(Section) Section) bool {
	found := false
	out := make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		if s.ID == sectionID {
			out[i] = fn(s)
			found = true
		} else {
			out[i] = s
		}
	}
	d.Sections = out
	return found
}

// mapQuiz rebuilds the quiz list of the matching section, applying fn to
// the quiz with the matching ID. Returns false if either is missing.
func (d *Draft) mapQuiz(sectionID, quizID string, fn func(Quiz) Quiz) bool {
	found := false
	d.mapSection(sectionID, func(s Section) Section {
		quizzes := make([]Quiz, len(s.Quizzes))
		for i, q := range s.Quizzes {
			if q.ID == quizID {
				quizzes[i] = fn(q)
				found = true
			} else {
				quizzes[i] = q
			}
		}
		s.Quizzes = quizzes
		return s
	})
	return found
}
