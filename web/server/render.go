package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/renderer"
	"github.com/google/uuid"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// RenderStats represents capture statistics sent to the client
type RenderStats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	TilesRendered  int     `json:"tilesRendered"`
	NumWorkers     int     `json:"numWorkers"`
	SurfaceCount   int     `json:"surfaceCount"`
	Speedup        float64 `json:"speedup"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	RenderID    string      `json:"renderId"`
	ImageData   string      `json:"imageData"`             // Base64 encoded PNG
	HeatmapData string      `json:"heatmapData,omitempty"` // Base64 encoded PNG of pixel times
	ElapsedMs   int64       `json:"elapsedMs"`
	Stats       RenderStats `json:"stats"`
}

// RenderResult is the outcome of one capture
type RenderResult struct {
	Film    *renderer.Film
	Stats   RenderStats
	Timer   *renderer.GridTimer
	Elapsed time.Duration
}

// handleRender captures a scene and streams console output and the final
// image to the client via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine, drained before the handler returns
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID, consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	result, err := s.capture(ctx, req, webLogger)

	// Nothing logs after the capture returns
	close(consoleChan)
	<-consoleDone

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.handleComplete(ctx, sseEventChan, renderID, req, result)
}

// handleImage captures a scene and responds with the PNG directly
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := uuid.NewString()
	result, err := s.capture(r.Context(), req, NewWebLogger(renderID, nil))
	if err != nil {
		writeError(w, statusForSceneError(err), err.Error())
		return
	}

	data, err := encodePNG(result.Film.Image())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Id", renderID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (string, chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := uuid.NewString()
	return renderID, consoleChan, NewWebLogger(renderID, consoleChan)
}

// capture builds the requested scene and camera and develops a film
func (s *Server) capture(ctx context.Context, req *RenderRequest, logger core.Logger) (*RenderResult, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return nil, err
	}

	captureConfig := renderer.DefaultCaptureConfig()
	captureConfig.Seed = req.Seed
	camera.SetCaptureConfig(captureConfig)
	camera.SetLogger(logger)

	timer := renderer.NewGridTimer(logger)
	camera.SetHooks(timer.Hooks())

	logger.Printf("Rendering %q at %dx%d\n", req.Scene, camera.Width(), camera.Height())

	startTime := time.Now()
	develop := camera.Capture
	eventName := "Capture Scene"
	if req.Preview {
		develop = camera.Preview
		eventName = "Preview Scene"
	}

	film, stats, err := develop(ctx, sceneObj)
	if err != nil {
		return nil, err
	}

	speedup, err := timer.Speedup(eventName)
	if err != nil {
		logger.Printf("timer: %v\n", err)
	}

	return &RenderResult{
		Film: film,
		Stats: RenderStats{
			TotalPixels:    stats.TotalPixels,
			TotalSamples:   stats.TotalSamples,
			AverageSamples: stats.AverageSamples,
			TilesRendered:  stats.TilesRendered,
			NumWorkers:     stats.NumWorkers,
			SurfaceCount:   len(sceneObj.Surfaces),
			Speedup:        speedup,
		},
		Timer:   timer,
		Elapsed: time.Since(startTime),
	}, nil
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleComplete encodes the film and sends the completion event
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan SSEEvent, renderID string, req *RenderRequest, result *RenderResult) {
	imageData, err := imageToBase64PNG(result.Film.Image())
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	update := CompleteUpdate{
		RenderID:  renderID,
		ImageData: imageData,
		ElapsedMs: result.Elapsed.Milliseconds(),
		Stats:     result.Stats,
	}

	if req.Heatmap {
		heatmap, err := result.Timer.Heatmap()
		if err != nil {
			s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to build heatmap: %v", err))
			return
		}
		if update.HeatmapData, err = imageToBase64PNG(heatmap); err != nil {
			s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode heatmap: %v", err))
			return
		}
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
