package cli

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/isoclass/isoclass/pkg/buildinfo"
	apperrors "github.com/isoclass/isoclass/pkg/errors"
	"github.com/isoclass/isoclass/pkg/gcode"
	"github.com/isoclass/isoclass/pkg/pipeline"
)

// newServeCmd creates the serve command: a small HTTP API over the engine.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long: `Serve exposes the engine as a JSON API:

  POST /v1/canon  body: a graph in any supported encoding
  POST /v1/iso    body: {"a": "<graph>", "b": "<graph>"}
  GET  /healthz

Graphs are accepted in graph6, sparse6, digraph6, or the JSON document
form with colors and edge labels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runner := pipeline.NewRunner(logger)

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.Recoverer)
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{
					"status": "ok",
					"build":  buildinfo.Get(),
				})
			})
			r.Post("/v1/canon", handleCanon(runner))
			r.Post("/v1/iso", handleIso(runner))

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				srv.Close()
			}()

			logger.Info("listening", "addr", addr)
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8417", "listen address")
	return cmd
}

// canonResponse is the JSON body of /v1/canon.
type canonResponse struct {
	Canonical  string   `json:"canonical"`
	N          int      `json:"n"`
	Edges      int      `json:"edges"`
	Orbits     int      `json:"orbits"`
	GroupOrder string   `json:"group_order"`
	Generators []string `json:"generators"`
}

func handleCanon(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, 16<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res, err := runner.Execute(req.Context(), body, pipeline.Options{Canonical: true, Exact: true})
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, canonResponse{
			Canonical:  string(res.Canonical),
			N:          res.Doc.N,
			Edges:      len(res.Doc.Edges),
			Orbits:     res.Search.NumOrbits,
			GroupOrder: res.Search.ExactOrder.String(),
			Generators: pipeline.GeneratorStrings(res.Search.Generators),
		})
	}
}

// isoRequest is the JSON body accepted by /v1/iso.
type isoRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

func handleIso(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in isoRequest
		if err := json.NewDecoder(io.LimitReader(req.Body, 32<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts := pipeline.Options{Canonical: true}
		ra, err := runner.Execute(req.Context(), []byte(in.A), opts)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		rb, err := runner.Execute(req.Context(), []byte(in.B), opts)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		iso := ra.Doc.Directed == rb.Doc.Directed &&
			string(ra.Canonical) == string(rb.Canonical)
		writeJSON(w, http.StatusOK, map[string]any{
			"isomorphic":  iso,
			"canonical_a": string(ra.Canonical),
			"canonical_b": string(rb.Canonical),
		})
	}
}

// statusFor maps decoder, validation, and capacity failures to 400,
// everything else to 500. The pipeline classifies the engine's sentinel
// errors into these codes before they reach the handlers.
func statusFor(err error) int {
	if errors.Is(err, gcode.ErrParse) {
		return http.StatusBadRequest
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidPartition,
		apperrors.ErrCodeInvalidPerm, apperrors.ErrCodeParse,
		apperrors.ErrCodeCapacity:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": apperrors.UserMessage(err)})
}
