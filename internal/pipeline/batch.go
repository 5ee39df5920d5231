package pipeline

import (
	"context"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
	"github.com/darkxdd/FigmaCursor-sub000/internal/walker"
)

// chunkSize bounds how many components are processed between pauses so a
// large batch does not saturate the upstream service.
const chunkSize = 3

// chunkPause is the idle gap between chunks.
const chunkPause = 500 * time.Millisecond

// EventType tags a batch progress event.
type EventType string

const (
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventDone      EventType = "done"
)

// Event reports per-component progress during a batch run. Index and
// Total let observers render ordered progress.
type Event struct {
	Type   EventType `json:"type"`
	NodeID string    `json:"nodeId,omitempty"`
	Name   string    `json:"name,omitempty"`
	Index  int       `json:"index"`
	Total  int       `json:"total"`
	Err    string    `json:"error,omitempty"`
}

// GenerateBatch walks fileKey for candidates and generates each in
// sequential chunks, emitting ordered progress events. The context cancels
// the whole batch between dispatches; per-component failures are reported
// in the result slice, not raised.
func (p *Pipeline) GenerateBatch(ctx context.Context, fileKey string, opts Options, progress func(Event)) ([]ComponentResult, error) {
	opts = opts.withDefaults()
	file, err := p.source.GetFile(ctx, fileKey)
	if err != nil {
		return nil, err
	}
	candidates := walker.Find(file.Document.Children, opts.Walker)
	total := len(candidates)
	notify := func(e Event) {
		if progress != nil {
			progress(e)
		}
	}

	results := make([]ComponentResult, 0, total)
	for start := 0; start < total; start += chunkSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(chunkPause):
			}
		}
		end := start + chunkSize
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			node := &candidates[i]
			notify(Event{Type: EventStarted, NodeID: node.ID, Name: node.Name, Index: i, Total: total})

			res, err := p.GenerateNode(ctx, node, siblingsOf(candidates, i), opts)
			results = append(results, res)
			if err != nil {
				notify(Event{Type: EventFailed, NodeID: node.ID, Name: node.Name, Index: i, Total: total, Err: err.Error()})
				continue
			}
			notify(Event{Type: EventCompleted, NodeID: node.ID, Name: node.Name, Index: i, Total: total})
		}
	}
	notify(Event{Type: EventDone, Index: total, Total: total})
	return results, nil
}

// siblingsOf returns the other candidates in the same chunk as prompt
// context.
func siblingsOf(candidates []figma.Node, i int) []figma.Node {
	start := (i / chunkSize) * chunkSize
	end := start + chunkSize
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[start:end]
}
