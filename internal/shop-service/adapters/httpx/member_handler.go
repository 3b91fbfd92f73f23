package httpx

import (
	"net/http"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if !decode(w, r, &req) {
		return
	}
	addr := domain.Address{City: req.Address.City, Street: req.Address.Street, Zipcode: req.Address.Zipcode}
	id, err := h.members.Join(r.Context(), req.Name, addr)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateMemberResponse{ID: id})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.Members(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, mapMember(m))
	}
	writeJSON(w, http.StatusOK, Result[[]MemberResponse]{Data: out})
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.members.UpdateName(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMember(m))
}
