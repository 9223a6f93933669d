package restserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/droughtindex/internal/store"
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetIndex computes an index table: /indices/{index}?frequency=seasonal
func (h *Handlers) GetIndex(w http.ResponseWriter, req *http.Request) {
	kind, freq, ok := h.parseIndexRequest(w, req)
	if !ok {
		return
	}

	rt, err := h.compute(kind, freq)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, h.transformTable(rt))
}

// GetComparison joins the monthly MCZI with the monthly CZI.
func (h *Handlers) GetComparison(w http.ResponseWriter, req *http.Request) {
	czi, err := h.compute(indices.CZI, indices.Monthly)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	calc, err := indices.NewModifiedChinaZIndex(h.controller.data.Table)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	cmp, err := calc.Compare(czi)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, h.transformComparison(cmp))
}

// GetSummary returns summary statistics: /summary/{index}?frequency=annual
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	kind, freq, ok := h.parseIndexRequest(w, req)
	if !ok {
		return
	}

	rt, err := h.compute(kind, freq)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, h.transformSummary(indices.Summarize(rt)))
}

// GetLatestRun returns a table from the most recent stored run.
func (h *Handlers) GetLatestRun(w http.ResponseWriter, req *http.Request) {
	st := h.controller.data.Store
	if st == nil {
		h.writeError(w, req, http.StatusNotFound, "results store is not enabled")
		return
	}

	kind, freq, ok := h.parseIndexRequest(w, req)
	if !ok {
		return
	}

	run, err := st.LatestRun(req.Context(), h.controller.data.Station)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}
	rt, err := st.LoadResults(req.Context(), run.ID, kind, freq)
	if err != nil {
		h.writeComputeError(w, req, err)
		return
	}

	resp := h.transformTable(rt)
	resp.RunID = run.ID
	h.write(w, req, http.StatusOK, resp)
}

func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, HealthResponse{
		Status:  "ok",
		Station: h.controller.data.Station,
		Months:  h.controller.data.Table.Len(),
	})
}

func (h *Handlers) parseIndexRequest(w http.ResponseWriter, req *http.Request) (indices.Kind, indices.Frequency, bool) {
	kind, err := indices.ParseKind(mux.Vars(req)["index"])
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	freq, err := indices.ParseFrequency(req.URL.Query().Get("frequency"))
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	return kind, freq, true
}

// compute runs one calculator and records it in the metrics.
func (h *Handlers) compute(kind indices.Kind, freq indices.Frequency) (*indices.ResultTable, error) {
	start := time.Now()
	calc, err := indices.New(kind, h.controller.data.Table, h.controller.data.Options...)
	var rt *indices.ResultTable
	if err == nil {
		rt, err = calc.Compute(freq)
	}
	if m := h.controller.data.Metrics; m != nil {
		m.ObserveCompute(string(kind), string(freq), time.Since(start), err)
	}
	return rt, err
}

func (h *Handlers) writeComputeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, indices.ErrInvalidFrequency),
		errors.Is(err, indices.ErrSchema), errors.Is(err, indices.ErrInvalidRecord):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.controller.logger.Errorf("request %s failed: %v", req.URL.Path, err)
	}
	h.writeError(w, req, status, err.Error())
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if err := h.formatter.WriteError(w, req, status, msg); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}
