package project

import "time"

// Kind classifies a run artifact.
type Kind string

const (
	KindChart    Kind = "chart"
	KindWorkbook Kind = "workbook"
)

// Artifact is one file produced by a run.
type Artifact struct {
	Kind      Kind      `json:"kind"`
	Pass      string    `json:"pass,omitempty"`
	Path      string    `json:"path"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Input records a dataset read by a run and what loading kept of it.
type Input struct {
	Role    string `json:"role"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Kept    int    `json:"kept"`
	Dropped int    `json:"dropped"`
}
