package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"resolvex/internal/complaint"
	"resolvex/internal/summary"
	"resolvex/internal/view"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.GetStatus())
}

func (s *Server) handleGetComplaints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc.Read().Complaints)
}

func (s *Server) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	var c complaint.Complaint
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid complaint payload")
		return
	}

	doc, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		if c.ID == "" {
			c.ID = complaint.NextID(doc.Complaints)
		}
		c = c.Normalize()
		doc.Complaints = append(doc.Complaints, c)
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save complaint")
		return
	}

	s.monitor.RecordWrite("complaints")
	s.broadcastUpdate("complaints", doc.Complaints)
	writeJSON(w, http.StatusCreated, c)
}

// complaintPatch carries a partial complaint update. Absent fields
// leave the stored value alone; rating null and rating absent both
// mean "no change".
type complaintPatch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Rating      *int    `json:"rating"`
}

func (s *Server) handleUpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch complaintPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid complaint payload")
		return
	}

	var updated complaint.Complaint
	found := false

	doc, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		for i, c := range doc.Complaints {
			if c.ID != id {
				continue
			}
			found = true
			if patch.Name != nil {
				c.Name = *patch.Name
			}
			if patch.Email != nil {
				c.Email = *patch.Email
			}
			if patch.Category != nil {
				c.Category = complaint.CoerceCategory(*patch.Category)
			}
			if patch.Description != nil {
				c.Description = *patch.Description
			}
			if patch.Status != nil {
				c.Status = complaint.CoerceStatus(*patch.Status)
			}
			if patch.Rating != nil {
				c.Rating = patch.Rating
			}
			doc.Complaints[i] = c
			updated = c
			return nil
		}
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save complaint")
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "Complaint not found")
		return
	}

	s.monitor.RecordWrite("complaints")
	s.broadcastUpdate("complaints", doc.Complaints)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteComplaint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		kept := doc.Complaints[:0]
		for _, c := range doc.Complaints {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		doc.Complaints = kept
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete complaint")
		return
	}

	s.monitor.RecordWrite("complaints")
	s.broadcastUpdate("complaints", doc.Complaints)
	writeMessage(w, http.StatusOK, "Complaint deleted")
}

func (s *Server) handleSyncComplaints(w http.ResponseWriter, r *http.Request) {
	var rows []complaint.Complaint
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil || rows == nil {
		writeMessage(w, http.StatusBadRequest, "Expected a complaints array")
		return
	}

	_, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		doc.Complaints = complaint.NormalizeAll(rows)
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to sync complaints")
		return
	}

	s.monitor.RecordWrite("complaints")
	s.broadcastUpdate("complaints", rows)
	writeMessage(w, http.StatusOK, "Complaints synced")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc.Read().Settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var patch complaint.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid settings payload")
		return
	}

	merged := complaint.MergeSettings(patch)
	_, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		doc.Settings = merged
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	s.monitor.RecordWrite("settings")
	s.broadcastUpdate("settings", merged)
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleGetABStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc.Read().AB)
}

func (s *Server) handleSaveABStats(w http.ResponseWriter, r *http.Request) {
	var ab complaint.AbStats
	if err := json.NewDecoder(r.Body).Decode(&ab); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid A/B stats payload")
		return
	}

	_, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		doc.AB = ab
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save A/B stats")
		return
	}

	s.monitor.RecordWrite("ab_stats")
	s.broadcastUpdate("ab_stats", ab)
	writeJSON(w, http.StatusOK, ab)
}

func (s *Server) handleGetDB(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc.Read())
}

// snapshotPayload mirrors Snapshot with optional sections so a missing
// complaints array is detectable.
type snapshotPayload struct {
	Complaints *[]complaint.Complaint   `json:"complaints"`
	AB         *complaint.AbStats       `json:"ab"`
	Settings   *complaint.SettingsPatch `json:"settings"`
}

func (s *Server) handlePutDB(w http.ResponseWriter, r *http.Request) {
	var payload snapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid snapshot payload")
		return
	}
	if payload.Complaints == nil {
		writeMessage(w, http.StatusBadRequest, "Snapshot must contain a complaints array")
		return
	}

	next := complaint.Snapshot{
		Complaints: complaint.NormalizeAll(*payload.Complaints),
		Settings:   complaint.DefaultSettings(),
	}
	if payload.AB != nil {
		next.AB = *payload.AB
	}
	if payload.Settings != nil {
		next.Settings = complaint.MergeSettings(*payload.Settings)
	}

	_, err := s.doc.Update(func(doc *complaint.Snapshot) error {
		*doc = next
		return nil
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to replace snapshot")
		return
	}

	s.monitor.RecordWrite("db")
	s.broadcastUpdate("db", next)
	writeMessage(w, http.StatusOK, "Database replaced")
}

func (s *Server) handleSummaryImage(w http.ResponseWriter, r *http.Request) {
	doc := s.doc.Read()

	img, err := summary.RenderCard(
		view.ComputeStats(doc.Complaints),
		view.RatingDistribution(doc.Complaints),
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to render summary image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}
