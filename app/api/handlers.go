// Copyright 2025 procwatch.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/procwatch-io/procwatch/app"
)

type healthResponse struct {
	Status string `json:"status"`
}

type violationResponse struct {
	EpisodeID     string    `json:"episode_id"`
	PID           int       `json:"pid"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	FirstDetected time.Time `json:"first_detected"`
	LastSeen      time.Time `json:"last_seen"`
}

type statusResponse struct {
	Version           string              `json:"version"`
	StartedAt         time.Time           `json:"started_at"`
	HostUptimeSeconds int64               `json:"host_uptime_seconds"`
	Ticks             uint64              `json:"ticks"`
	ActiveViolations  []violationResponse `json:"active_violations"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.source.Status()

	response := statusResponse{
		Version:           app.Version,
		StartedAt:         status.StartedAt,
		HostUptimeSeconds: hostUptime(),
		Ticks:             status.Ticks,
		ActiveViolations:  make([]violationResponse, 0, len(status.ActiveViolations)),
	}

	for _, violation := range status.ActiveViolations {
		response.ActiveViolations = append(response.ActiveViolations, violationResponse{
			EpisodeID:     violation.EpisodeID,
			PID:           violation.PID,
			Name:          violation.Name,
			Kind:          violation.Kind.String(),
			FirstDetected: violation.FirstDetected,
			LastSeen:      violation.LastSeen,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(payload)
}
