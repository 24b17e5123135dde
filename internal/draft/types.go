// Package draft holds the in-memory course draft: an ordered tree of
// sections containing videos, text blocks and quizzes. All mutations are
// structural — they build new slices instead of editing shared state in
// place — and degrade to no-ops when a target identifier is missing.
package draft

import (
	"strings"
	"time"
)

// OptionLetters is the fixed answer-option ordering for quiz questions.
var OptionLetters = [4]string{"A", "B", "C", "D"}

// Question is one quiz question with four answer options. Questions carry
// no identifier; they are addressed by position within their quiz.
type Question struct {
	Text    string `json:"text" yaml:"text"`
	OptionA string `json:"optionA" yaml:"option_a"`
	OptionB string `json:"optionB" yaml:"option_b"`
	OptionC string `json:"optionC" yaml:"option_c"`
	OptionD string `json:"optionD" yaml:"option_d"`
	Correct string `json:"correct" yaml:"correct"` // one of A, B, C, D
}

// Option returns the option text for a letter (case-insensitive).
func (q Question) Option(letter string) (string, bool) {
	switch strings.ToUpper(letter) {
	case "A":
		return q.OptionA, true
	case "B":
		return q.OptionB, true
	case "C":
		return q.OptionC, true
	case "D":
		return q.OptionD, true
	}
	return "", false
}

// Options returns the four option texts in A–D order.
func (q Question) Options() [4]string {
	return [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// Complete reports whether the question has text, all four options and a
// valid correct letter.
func (q Question) Complete() bool {
	if q.Text == "" {
		return false
	}
	for _, opt := range q.Options() {
		if opt == "" {
			return false
		}
	}
	_, ok := q.Option(q.Correct)
	return ok && q.Correct != ""
}

// Video is a lecture video. URL stays empty until the upload coordinator
// resolves the pending local file into a storage key.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PendingFile string `json:"pendingFile,omitempty"` // local path of a selected, not yet uploaded file
}

// Ready reports whether the video can be published. A video that still
// references a local file without a resolved URL is not ready.
func (v Video) Ready() bool {
	return v.PendingFile == "" || v.URL != ""
}

// TextBlock is a text lecture.
type TextBlock struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Quiz is a named, ordered list of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Score counts the questions whose submitted answer letter matches the
// designated correct letter, case-insensitively. Answers are keyed by
// question index; unanswered questions score nothing.
func (q Quiz) Score(answers map[int]string) int {
	score := 0
	for i, question := range q.Questions {
		answer, ok := answers[i]
		if !ok || answer == "" {
			continue
		}
		if strings.EqualFold(answer, question.Correct) {
			score++
		}
	}
	return score
}

// Section is a named, ordered grouping of content within a draft.
type Section struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Videos  []Video     `json:"videos"`
	Quizzes []Quiz      `json:"quizzes"`
	Texts   []TextBlock `json:"texts,omitempty"`
}

// Draft is a locally-built course awaiting publish. Identifiers inside a
// draft are client-generated and only unique within the authoring session;
// the backend assigns authoritative IDs at publish time.
type Draft struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
	Sections     []Section `json:"sections"`
}
