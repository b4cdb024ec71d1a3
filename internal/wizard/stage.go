package wizard

import "fmt"

// Stage is the wizard's progress marker. It only moves forward through
// successful actions, never through navigation.
type Stage int

const (
	StageStart Stage = iota
	StageProfile
	StageDrafted
	StagePreviewed
	StagePaid
	StageDone
)

var stageNames = [...]string{"start", "profile", "drafted", "previewed", "paid", "done"}

func (s Stage) String() string {
	if s < StageStart || s > StageDone {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

const (
	PathHome          = "/"
	PathUpload        = "/upload"
	PathExtractReview = "/extract-review"
	PathGenerate      = "/generate"
	PathTemplates     = "/templates"
	PathPreviewPay    = "/preview-pay"
	PathDone          = "/done"
)

// Paths holds the canonical screen for each stage, indexed by stage
var Paths = []string{PathUpload, PathExtractReview, PathGenerate, PathTemplates, PathPreviewPay, PathDone}

var minStages = map[string]Stage{
	PathUpload:        StageStart,
	PathExtractReview: StageProfile,
	PathGenerate:      StageDrafted,
	PathTemplates:     StageDrafted,
	PathPreviewPay:    StagePreviewed,
	PathDone:          StagePaid,
}

// MinStage returns the stage required to view path
func MinStage(path string) (Stage, bool) {
	s, ok := minStages[path]
	return s, ok
}

// PathFor returns the canonical screen for stage
func PathFor(stage Stage) string {
	switch {
	case stage <= StageStart:
		return Paths[0]
	case int(stage) >= len(Paths):
		return Paths[len(Paths)-1]
	default:
		return Paths[stage]
	}
}

// Guard decides where a request for path should land. Gated screens beyond
// the current stage redirect to the stage's own screen; unknown paths go home.
func Guard(stage Stage, path string) (target string, redirected bool) {
	if path == PathHome {
		return path, false
	}
	required, ok := MinStage(path)
	if !ok {
		return PathHome, true
	}
	if stage < required {
		return PathFor(stage), true
	}
	return path, false
}
