package app

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vk/synthgrid/internal/orchestrator"
)

// healthHandler reports process liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// progressHandler reports the current run state and frame progress.
func (a *App) progressHandler(w http.ResponseWriter, r *http.Request) {
	orc, eng := a.currentRun()

	state := orchestrator.StateIdle
	completed := 0
	if orc != nil {
		state = orc.State()
	}
	if eng != nil {
		completed = eng.Completed()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"state":            state.String(),
		"frames_completed": completed,
	}); err != nil {
		a.logger.Error("Failed to encode progress response.", "error", err)
	}
}

// startHealthcheckServer initializes and runs the health check HTTP server.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/progress", a.progressHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Health check server failed", "error", err)
		}
	}()
}
