package httpx

import (
	"net/http"
)

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	item := itemFromRequest(req)
	if err := h.items.SaveItem(r.Context(), item); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapItem(item))
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Items(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, mapItem(it))
	}
	writeJSON(w, http.StatusOK, Result[[]ItemResponse]{Data: out})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.items.UpdateItem(r.Context(), id, req.Name, req.Price, req.StockQuantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapItem(item))
}

func (h *Handler) CategorizeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CategorizeRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.items.Categorize(r.Context(), id, req.Name, req.Parent); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeCategories(w, r, id)
}

func (h *Handler) ListItemCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.writeCategories(w, r, id)
}

func (h *Handler) writeCategories(w http.ResponseWriter, r *http.Request, id int64) {
	cats, err := h.items.Categories(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, Result[[]CategoryResponse]{Data: out})
}
