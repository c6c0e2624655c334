package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tariff-engine/internal/billing/application"
	billing "tariff-engine/internal/billing/domain"
	topology "tariff-engine/internal/topology/domain"
)

// BillsHandler exposes bill computation over HTTP.
type BillsHandler struct {
	service *application.BillService
}

// NewBillsHandler constructs a handler.
func NewBillsHandler(service *application.BillService) (*BillsHandler, error) {
	if service == nil {
		return nil, errors.New("bills handler: nil service")
	}
	return &BillsHandler{service: service}, nil
}

// ServeHTTP handles POST /api/v1/bills/compute.
func (h *BillsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		NodePath string `json:"node_path"`
		Start    string `json:"start"`
		End      string `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.NodePath == "" {
		http.Error(w, "node_path required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		http.Error(w, "invalid start", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		http.Error(w, "invalid end", http.StatusBadRequest)
		return
	}

	computation, err := h.service.ComputeBill(r.Context(), req.NodePath, start, end)
	if err != nil {
		if errors.Is(err, topology.ErrNodeNotFound) {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, topology.ErrHierarchyCycle) {
			http.Error(w, "hierarchy cycle", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "compute failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toComputeResponse(computation))
}

type lineDTO struct {
	ComponentID   string  `json:"component_id"`
	ComponentName string  `json:"component_name"`
	Total         float64 `json:"total"`
	Detail        string  `json:"detail"`
}

type categoryDTO struct {
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Subtotal     float64   `json:"subtotal"`
	Lines        []lineDTO `json:"lines"`
}

type computeResponse struct {
	ID             string             `json:"id"`
	NodePath       string             `json:"node_path"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	ComputedAt     time.Time          `json:"computed_at"`
	Mature         bool               `json:"mature"`
	Currency       string             `json:"currency"`
	RateSetMonth   string             `json:"rate_set_month"`
	UnitQuantities map[string]float64 `json:"unit_quantities"`
	TOUQuantities  map[string]float64 `json:"tou_quantities"`
	Categories     []categoryDTO      `json:"categories"`
	GrandTotal     float64            `json:"grand_total"`
}

func toComputeResponse(computation *application.Computation) computeResponse {
	resp := computeResponse{
		ID:             computation.ID,
		NodePath:       computation.NodePath,
		Start:          computation.Start,
		End:            computation.End,
		ComputedAt:     computation.ComputedAt,
		Mature:         computation.Mature,
		Currency:       computation.Currency,
		RateSetMonth:   computation.RateSetMonth,
		UnitQuantities: computation.Quantities.Units,
		TOUQuantities:  computation.Quantities.TOU,
		GrandTotal:     computation.Bill.GrandTotal,
	}
	for _, category := range computation.Bill.Categories {
		dto := categoryDTO{
			CategoryID:   category.CategoryID,
			CategoryName: category.CategoryName,
			Subtotal:     category.Subtotal,
		}
		for _, line := range category.Lines {
			dto.Lines = append(dto.Lines, toLineDTO(line))
		}
		resp.Categories = append(resp.Categories, dto)
	}
	return resp
}

func toLineDTO(line billing.BillLine) lineDTO {
	return lineDTO{
		ComponentID:   line.ComponentID,
		ComponentName: line.ComponentName,
		Total:         line.Total,
		Detail:        line.Detail,
	}
}
