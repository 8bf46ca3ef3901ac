package preview

import (
	"net/http"
	"sync"

	"github.com/hybridgroup/mjpeg"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

// Hub держит по одному MJPEG-потоку на каждую ветку признаков.
type Hub struct {
	mu      sync.RWMutex
	streams map[entity.FeaturePath]*mjpeg.Stream
	frames  map[entity.FeaturePath]uint64
}

// NewHub создаёт потоки для веток границ и порога.
func NewHub() *Hub {
	return &Hub{
		streams: map[entity.FeaturePath]*mjpeg.Stream{
			entity.PathEdges:     mjpeg.NewStream(),
			entity.PathThreshold: mjpeg.NewStream(),
		},
		frames: make(map[entity.FeaturePath]uint64),
	}
}

// Publish отдаёт очередной JPEG всем подписчикам ветки.
func (h *Hub) Publish(path entity.FeaturePath, jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// mjpeg.Stream переиспользует буфер кадра, поэтому обновления идут под замком.
	if stream, ok := h.streams[path]; ok {
		h.frames[path]++
		stream.UpdateJPEG(jpeg)
	}
}

// Handler возвращает HTTP-обработчик потока ветки или nil, если ветки нет.
func (h *Hub) Handler(path entity.FeaturePath) http.Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stream, ok := h.streams[path]
	if !ok {
		return nil
	}
	return stream
}

// Frames возвращает число опубликованных кадров ветки.
func (h *Hub) Frames(path entity.FeaturePath) uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frames[path]
}

var _ port.PreviewSink = (*Hub)(nil)
