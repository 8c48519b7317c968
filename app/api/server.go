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

// Package api exposes a read-only local status endpoint for the watchdog.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/procwatch-io/procwatch/app/log"
	"github.com/procwatch-io/procwatch/app/monitor"

	stdlog "log"
)

const shutdownTimeout = 5 * time.Second

// StatusSource provides a point-in-time view of the monitoring engine.
type StatusSource interface {
	Status() monitor.Status
}

// Server serves the local status API.
type Server struct {
	source StatusSource
	server *http.Server
}

// NewServer returns a status API server bound to listenAddress.
func NewServer(listenAddress string, source StatusSource) *Server {
	s := &Server{source: source}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              listenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          stdlog.New(log.NewWriter(log.WARNING, "status API: "), "", 0),
	}

	return s
}

// Start serves the status API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = s.server.Shutdown(shutdownCtx)
	}()

	log.Infof("status API listening on %s", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
