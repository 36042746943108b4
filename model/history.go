package model

import "time"

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypeCrashReport ArtifactType = iota
	ArtifactTypeMinidump
)

func (t ArtifactType) String() string {
	switch t {
	case ArtifactTypeCrashReport:
		return "report"
	case ArtifactTypeMinidump:
		return "minidump"
	}
	return "unknown"
}

// Artifact represents a file produced while handling a fault
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to the reports root
}

// Crash groups the artifacts that share one fault timestamp.
type Crash struct {
	// Timestamp parsed from the artifact file names (second resolution)
	Timestamp time.Time `json:"timestamp"`
	// Artifacts found for this timestamp, report first
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Report returns the text report artifact, if any.
func (c *Crash) Report() *Artifact {
	return c.find(ArtifactTypeCrashReport)
}

// Minidump returns the minidump artifact, if any.
func (c *Crash) Minidump() *Artifact {
	return c.find(ArtifactTypeMinidump)
}

func (c *Crash) find(t ArtifactType) *Artifact {
	for i := range c.Artifacts {
		if c.Artifacts[i].Type == t {
			return &c.Artifacts[i]
		}
	}
	return nil
}
