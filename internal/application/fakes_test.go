package app

import (
	"context"
	"sync"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

type fakeAnalyzer struct {
	image    *entity.ImageInspection
	run      *entity.VideoRun
	err      error
	profiles []entity.Profile
}

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, imageData []byte, profile entity.Profile) (*entity.ImageInspection, error) {
	f.profiles = append(f.profiles, profile)
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

func (f *fakeAnalyzer) ProcessVideo(ctx context.Context, inputPath string, outputs entity.VideoOutputs, profile entity.Profile, observe port.FrameObserver) (*entity.VideoRun, error) {
	f.profiles = append(f.profiles, profile)
	if f.err != nil {
		return nil, f.err
	}
	for _, v := range f.run.Verdicts {
		if observe != nil {
			observe(v)
		}
	}
	return f.run, nil
}

type fakeTranscoder struct {
	errs  map[string]error // по выходному пути
	calls []string
}

func (f *fakeTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	f.calls = append(f.calls, outputPath)
	return f.errs[outputPath]
}

type fakePublisher struct {
	mu      sync.Mutex
	frames  []int
	reports []*entity.VideoReport
	err     error
}

func (f *fakePublisher) PublishFrame(ctx context.Context, runID string, verdict entity.FrameVerdict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, verdict.Index)
	return f.err
}

func (f *fakePublisher) PublishReport(ctx context.Context, report *entity.VideoReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report)
	return f.err
}
