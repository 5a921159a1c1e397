package questionnaire

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoQuestions is returned for an empty question list
var ErrNoQuestions = errors.New("question list is empty")

// DefaultQuestions is the built-in health questionnaire
var DefaultQuestions = []string{
	"What is your age?",
	"What is your gender? (Male/Female)",
	"Do you have any allergies? (Yes/No)",
	"Do you have a history of heart disease?",
	"Do you smoke?",
	"How often do you exercise?",
	"Do you have any chronic conditions? (e.g. diabetes)",
	"Are you currently on any medication?",
	"Do you have any family history of serious illnesses?",
	"Have you had any recent surgeries?",
	"Are you experiencing any pain or discomfort?",
	"Have you traveled outside the country recently?",
}

// questionFile is the on-disk format:
//
//	questions:
//	  - What is your age?
//	  - Do you smoke?
type questionFile struct {
	Questions []string `yaml:"questions"`
}

// ParseQuestions decodes a YAML question list. Blank entries are an error.
func ParseQuestions(data []byte) ([]string, error) {
	var f questionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not decode questions: %w", err)
	}
	if len(f.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	for i, q := range f.Questions {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("question %d is blank", i+1)
		}
	}
	return f.Questions, nil
}

// LoadQuestions reads a YAML question list from path. An empty path returns DefaultQuestions.
func LoadQuestions(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), DefaultQuestions...), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read questions file: %w", err)
	}
	return ParseQuestions(data)
}
