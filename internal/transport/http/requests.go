package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"
)

type reviewRequest struct {
	Reviewer string `json:"reviewer"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

func decodeReviewRequest(w http.ResponseWriter, r *http.Request) (reviewRequest, bool) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest("invalid request body"))
		return req, false
	}
	req.Reviewer = strings.TrimSpace(req.Reviewer)
	req.Status = strings.TrimSpace(req.Status)
	if req.Reviewer == "" {
		writeError(w, badRequest("reviewer is required"))
		return req, false
	}
	if req.Status != "approved" && req.Status != "rejected" {
		writeError(w, badRequest("status must be approved or rejected"))
		return req, false
	}
	return req, true
}
