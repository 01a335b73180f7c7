// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/consensys/go-bits/pkg/bits"
	"github.com/consensys/go-bits/pkg/transmission"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is the response to a successful decode request.  If the transmission
// decoded but could not be evaluated then Value is absent, and Error and Kind
// describe the failure.
type Result struct {
	Fingerprint string     `json:"fingerprint"`
	Bits        uint       `json:"bits"`
	VersionSum  uint64     `json:"version_sum"`
	Value       *uint64    `json:"value,omitempty"`
	Expr        string     `json:"expr"`
	Stats       bits.Stats `json:"stats"`
	Error       string     `json:"error,omitempty"`
	Kind        string     `json:"kind,omitempty"`
	Cached      bool       `json:"cached"`
}

// Failure is the response to a request which could not be decoded.
type Failure struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	// Offset is the bit offset at which decoding failed, if known.
	Offset *uint `json:"offset,omitempty"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var (
		start = time.Now()
		body  = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	)
	//
	text, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		//
		status := http.StatusBadRequest
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		//
		s.fail(w, status, resultBadRequest, err)
		//
		return
	}
	//
	tx, err := transmission.ParseHex(string(text))
	if err != nil {
		s.fail(w, http.StatusBadRequest, resultBadRequest, err)
		return
	}
	//
	key := tx.Fingerprint()
	//
	if result, ok := s.cache.get(key); ok {
		s.metrics.cacheHits.Inc()
		s.metrics.requestsTotal.WithLabelValues(resultOf(result)).Inc()
		//
		result.Cached = true
		writeJSON(w, http.StatusOK, result)
		//
		return
	}
	//
	result, err := s.decode(r, tx)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, resultDecodeError, err)
		return
	}
	//
	s.cache.put(key, result)
	s.metrics.decodeDuration.Observe(time.Since(start).Seconds())
	s.metrics.packets.Observe(float64(result.Stats.Packets))
	s.metrics.requestsTotal.WithLabelValues(resultOf(result)).Inc()
	//
	writeJSON(w, http.StatusOK, result)
}

// Decode and evaluate a transmission, tracing each step.  Only a failure to
// decode is reported as an error, since a tree which fails to evaluate still
// has a version sum.
func (s *Server) decode(r *http.Request, tx *transmission.Transmission) (Result, error) {
	ctx, span := s.tracer.Start(r.Context(), "bits.decode", trace.WithAttributes(
		attribute.Int("bits.length", int(tx.Bits())),
		attribute.String("bits.fingerprint", tx.Fingerprint().String()),
	))
	defer span.End()
	//
	packet, err := s.decoder.DecodeTransmission(tx.Cursor())
	if err != nil {
		recordError(span, err)
		s.countError(err)
		//
		return Result{}, err
	}
	//
	result := Result{
		Fingerprint: tx.Fingerprint().String(),
		Bits:        tx.Bits(),
		VersionSum:  bits.VersionSum(packet),
		Expr:        packet.String(),
		Stats:       bits.StatsOf(packet),
	}
	//
	span.SetAttributes(attribute.Int("bits.packets", int(result.Stats.Packets)))
	//
	_, evalSpan := s.tracer.Start(ctx, "bits.evaluate")
	defer evalSpan.End()
	//
	if value, err := bits.Evaluate(packet); err != nil {
		recordError(evalSpan, err)
		s.countError(err)
		//
		result.Error = err.Error()
		result.Kind = kindName(err)
	} else {
		result.Value = &value
	}
	//
	log.WithFields(log.Fields{
		"fingerprint": result.Fingerprint,
		"packets":     result.Stats.Packets,
		"version_sum": result.VersionSum,
	}).Debug("decoded transmission")
	//
	return result, nil
}

func (s *Server) fail(w http.ResponseWriter, status int, result string, err error) {
	var (
		failure = Failure{Error: err.Error()}
		e       *bits.Error
	)
	//
	if errors.As(err, &e) {
		offset := e.Offset()
		failure.Kind = e.Kind().Name()
		failure.Offset = &offset
	}
	//
	s.metrics.requestsTotal.WithLabelValues(result).Inc()
	//
	writeJSON(w, status, failure)
}

func (s *Server) countError(err error) {
	s.metrics.errorsTotal.WithLabelValues(kindName(err)).Inc()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func resultOf(result Result) string {
	if result.Error != "" {
		return resultEvalError
	}
	//
	return resultOK
}

func kindName(err error) string {
	if kind, ok := bits.KindOf(err); ok {
		return kind.Name()
	}
	//
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Error(fmt.Sprintf("writing response: %v", err))
	}
}
