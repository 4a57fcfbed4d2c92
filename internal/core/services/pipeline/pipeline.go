// Package pipeline applies an ordered list of byte transforms to every
// record before it reaches a file.
package pipeline

import (
	"fmt"
	"sync/atomic"

	"github.com/iamNilotpal/rotlog/internal/core/ports"
	rerrors "github.com/iamNilotpal/rotlog/pkg/errors"
)

// Pipeline is safe for concurrent use. Stages may be added or cleared while
// records are being transformed; every Apply call works on the stages that
// were registered when it started.
type Pipeline struct {
	stages atomic.Pointer[[]ports.Transformer]
}

// New creates a pipeline with the given stages, nil entries skipped.
func New(stages ...ports.Transformer) *Pipeline {
	p := &Pipeline{}
	p.Add(stages...)
	return p
}

// Add appends stages to the end of the pipeline.
func (p *Pipeline) Add(stages ...ports.Transformer) {
	for {
		current := p.stages.Load()

		var next []ports.Transformer
		if current != nil {
			next = make([]ports.Transformer, len(*current), len(*current)+len(stages))
			copy(next, *current)
		}
		for _, stage := range stages {
			if stage != nil {
				next = append(next, stage)
			}
		}

		if p.stages.CompareAndSwap(current, &next) {
			return
		}
	}
}

// Reset removes every stage.
func (p *Pipeline) Reset() {
	p.stages.Store(nil)
}

func (p *Pipeline) Len() int {
	if stages := p.stages.Load(); stages != nil {
		return len(*stages)
	}
	return 0
}

// Apply runs data through every stage in registration order. An empty
// pipeline returns data unchanged. A failing stage stops the run and is
// reported as a transform error naming its position.
func (p *Pipeline) Apply(data []byte) ([]byte, error) {
	stages := p.stages.Load()
	if stages == nil {
		return data, nil
	}

	var err error
	for i, stage := range *stages {
		if data, err = stage.Transform(data); err != nil {
			return nil, rerrors.NewStreamError(
				rerrors.KindTransform, fmt.Sprintf("transform stage %d", i), "", err,
			)
		}
	}

	return data, nil
}
