package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/infrastructure/emitter"
	"stripe-inspector/internal/infrastructure/storage"
)

const (
	maxImageSize = 32 << 20
	maxVideoSize = 1 << 30
	formField    = "file"
)

// Inspector сценарии проверки, которые отдаёт HTTP API.
type Inspector interface {
	InspectImage(ctx context.Context, photo []byte, low, high float32) (*entity.ImageInspection, error)
	InspectVideo(ctx context.Context, runID, inputPath string, outputs entity.VideoOutputs) (*entity.VideoReport, error)
}

// PreviewSource отдаёт MJPEG-поток ветки признаков и число кадров в нём.
type PreviewSource interface {
	Handler(path entity.FeaturePath) http.Handler
	Frames(path entity.FeaturePath) uint64
}

// PublisherStats счётчики издателя вердиктов для /healthz.
type PublisherStats interface {
	Stats() emitter.Stats
}

// Server HTTP API проверки и живого просмотра.
type Server struct {
	inspector Inspector
	layout    *storage.OutputLayout
	previews  PreviewSource
	publisher PublisherStats
	logger    *slog.Logger
}

// NewServer создаёт сервер. previews может быть nil.
// Каждая загрузка пишет в свой каталог прогона независимо от раскладки layout.
func NewServer(inspector Inspector, layout *storage.OutputLayout, previews PreviewSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		inspector: inspector,
		layout:    layout.PerRun(),
		previews:  previews,
		logger:    logger,
	}
}

// SetPublisher включает счётчики MQTT в /healthz.
func (s *Server) SetPublisher(p PublisherStats) {
	s.publisher = p
}

// Handler возвращает роутер, обёрнутый в CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/preview/{path}", s.handlePreview).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/image", s.handleImage).Methods(http.MethodPost)
	api.HandleFunc("/video", s.handleVideo).Methods(http.MethodPost)
	api.HandleFunc("/runs/{run}/{file}", s.handleOutput).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

// ListenAndServe обслуживает addr до отмены ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status  string                        `json:"status"`
	Preview map[entity.FeaturePath]uint64 `json:"preview_frames,omitempty"`
	MQTT    *mqttHealth                   `json:"mqtt,omitempty"`
}

type mqttHealth struct {
	Connected bool              `json:"connected"`
	Published map[string]uint64 `json:"published"`
	Errors    uint64            `json:"errors"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.previews != nil {
		resp.Preview = map[entity.FeaturePath]uint64{
			entity.PathEdges:     s.previews.Frames(entity.PathEdges),
			entity.PathThreshold: s.previews.Frames(entity.PathThreshold),
		}
	}
	if s.publisher != nil {
		st := s.publisher.Stats()
		resp.MQTT = &mqttHealth{Connected: st.Connected, Published: st.Published, Errors: st.Errors}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.previews == nil {
		writeError(w, http.StatusNotFound, "preview is disabled")
		return
	}
	h := s.previews.Handler(entity.FeaturePath(mux.Vars(r)["path"]))
	if h == nil {
		writeError(w, http.StatusNotFound, "unknown feature path")
		return
	}
	h.ServeHTTP(w, r)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	low, high, err := cutoffs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, _, err := r.FormFile(formField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload")
		return
	}

	result, err := s.inspector.InspectImage(r.Context(), data, low, high)
	if err != nil {
		s.logger.Warn("image inspection failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// videoResponse отчёт прогона со ссылками на выходные файлы.
type videoResponse struct {
	*entity.VideoReport
	Links map[string]string `json:"links"`
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoSize)
	file, header, err := r.FormFile(formField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	inputPath, err := s.layout.SaveUpload(file, header.Filename)
	if err != nil {
		s.logger.Error("save upload", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.Remove(inputPath)

	runID := storage.NewRunID()
	outputs, err := s.layout.Prepare(runID)
	if err != nil {
		s.logger.Error("prepare outputs", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not prepare outputs")
		return
	}

	report, err := s.inspector.InspectVideo(r.Context(), runID, inputPath, outputs)
	if err != nil {
		s.logger.Warn("video inspection failed", "run_id", runID, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	links := map[string]string{
		"edges":  s.outputURL(runID, outputs.EdgesRaw),
		"binary": s.outputURL(runID, outputs.ThresholdRaw),
	}
	if report.PlaybackReady {
		links["edges"] = s.outputURL(runID, outputs.EdgesPlayable)
		links["binary"] = s.outputURL(runID, outputs.ThresholdPlayable)
	}
	writeJSON(w, http.StatusOK, videoResponse{VideoReport: report, Links: links})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	path, err := s.layout.Resolve(vars["run"], vars["file"])
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown output")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "output not found")
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}

func (s *Server) outputURL(runID, path string) string {
	return "/api/v1/runs/" + runID + "/" + filepath.Base(path)
}

// cutoffs читает пороги Canny из query; по умолчанию 20 и 150.
func cutoffs(r *http.Request) (float32, float32, error) {
	low, err := queryFloat(r, "low", entity.DefaultEdgeLowCutoff)
	if err != nil {
		return 0, 0, err
	}
	high, err := queryFloat(r, "high", entity.DefaultEdgeHighCutoff)
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

func queryFloat(r *http.Request, key string, def float32) (float32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, errors.New("query parameter " + key + " must be a number")
	}
	return float32(v), nil
}

func statusFor(err error) int {
	var openErr *entity.SourceOpenError
	var boundsErr *entity.OutOfBoundsError
	switch {
	case errors.Is(err, entity.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.As(err, &openErr), errors.As(err, &boundsErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
