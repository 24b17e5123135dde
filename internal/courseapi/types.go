package courseapi

import (
	"bytes"
	"encoding/json"
	"time"
)

// Course is a published course as returned by the backend.
type Course struct {
	ID           ID        `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// ID is a server-assigned identifier. The backend is free to encode these
// as JSON strings or numbers; both decode to the string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	*id = ID(data)
	return nil
}

func (id ID) String() string {
	return string(id)
}

// CreateCourseRequest is the payload for POST /courses.
type CreateCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	InstructorID string `json:"instructorId"`
}

// CreateSectionRequest is the payload for POST /courses/{id}/sections.
type CreateSectionRequest struct {
	Title string `json:"title"`
}

// VideoRequest is the payload for POST /sections/{id}/videos.
type VideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// QuestionPayload mirrors the backend's per-question shape.
type QuestionPayload struct {
	Text    string `json:"text"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	OptionC string `json:"optionC"`
	OptionD string `json:"optionD"`
	Correct string `json:"correct"`
}

// QuizRequest is the payload for POST /sections/{id}/quizzes. The full
// question array rides along in the one call.
type QuizRequest struct {
	Name      string            `json:"name"`
	Questions []QuestionPayload `json:"questions"`
}

type createdResponse struct {
	ID ID `json:"id"`
}
