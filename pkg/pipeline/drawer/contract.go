package drawer

import (
	"time"

	"github.com/askiada/go-model-chain/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(stageName string) error
	// AddLink adds a link between parent and children stages.
	AddLink(parentStageName, childrenStageName string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime labels a stage with a total duration.
	SetTotalTime(stageName string, total time.Duration) error
	// AddMeasure labels stages and links with the measured durations.
	AddMeasure(measure measure.Measure) error
}
