package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openlearn/coursecraft/internal/courseapi"
)

// seedCourse is one entry in a YAML seed catalog.
type seedCourse struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Instructor  string `yaml:"instructor"`
	Thumbnail   string `yaml:"thumbnail"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

type seedFile struct {
	Courses []seedCourse `yaml:"courses"`
}

// LoadSeed reads a YAML seed catalog from disk. Entries without an ID or
// title are skipped with a warning rather than failing the whole file.
func LoadSeed(path string) ([]courseapi.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed catalog: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing seed catalog: %w", err)
	}

	out := []courseapi.Course{}
	for _, sc := range sf.Courses {
		if sc.ID == "" || sc.Title == "" {
			slog.Warn("skipping incomplete seed course", "id", sc.ID, "title", sc.Title)
			continue
		}
		out = append(out, courseapi.Course{
			ID:           courseapi.ID(sc.ID),
			Title:        sc.Title,
			Description:  sc.Description,
			ThumbnailURL: sc.Thumbnail,
			InstructorID: sc.Instructor,
		})
	}
	return out, nil
}
