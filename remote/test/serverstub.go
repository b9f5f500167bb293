package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	AccessToken  = "access-token"
	RefreshToken = "refresh-token"
	UserId       = "user-1"
	UserEmail    = "user@example.com"
	UserName     = "Test User"

	ProfilesEndpoint      = "/api/v1/family-profiles"
	ActiveProfileEndpoint = "/api/v1/family-profiles/active/current"
	SetActiveEndpoint     = "/api/v1/family-profiles/set-active"
	RefreshEndpoint       = "/api/v1/auth/refresh"
	CurrentUserEndpoint   = "/api/v1/auth/me"
)

// ProfileServer is an in-memory profile service. Profiles are stored as raw wire documents.
type ProfileServer struct {
	*httptest.Server

	mu              sync.Mutex
	profiles        []map[string]any
	activeProfileId string
	failures        map[string]int
	calls           map[string]int

	// AccessToken is the bearer token accepted by the profile endpoints
	AccessToken string
	// RefreshedToken is issued by the refresh endpoint
	RefreshedToken string
}

func ServerStub() *ProfileServer {
	s := &ProfileServer{
		failures:       map[string]int{},
		calls:          map[string]int{},
		AccessToken:    AccessToken,
		RefreshedToken: AccessToken,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddProfile stores a profile document and returns its id
func (s *ProfileServer) AddProfile(profile map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := profile["id"]; !ok {
		profile["id"] = uuid.NewString()
	}
	profile["user_id"] = UserId
	s.profiles = append(s.profiles, profile)
	return profile["id"].(string)
}

func (s *ProfileServer) SetActive(profileId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProfileId = profileId
}

func (s *ProfileServer) ActiveProfileId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProfileId
}

// Fail responds with the status to every request to the key, which is "METHOD path"
func (s *ProfileServer) Fail(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = status
}

func (s *ProfileServer) Recover(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
}

// Calls returns the number of requests received for the key, which is "METHOD path"
func (s *ProfileServer) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *ProfileServer) ProfileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func (s *ProfileServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	s.calls[key]++
	if status, ok := s.failures[key]; ok {
		writeJSON(w, status, map[string]any{"detail": "forced failure"})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == RefreshEndpoint {
		s.refresh(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+s.AccessToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == CurrentUserEndpoint:
		writeJSON(w, http.StatusOK, map[string]any{"id": UserId, "email": UserEmail, "name": UserName})
	case r.Method == http.MethodGet && r.URL.Path == ProfilesEndpoint:
		response := map[string]any{"profiles": s.profiles, "total": len(s.profiles)}
		if s.profiles == nil {
			response["profiles"] = []any{}
		}
		if s.activeProfileId != "" {
			response["active_profile_id"] = s.activeProfileId
		}
		writeJSON(w, http.StatusOK, response)
	case r.Method == http.MethodGet && r.URL.Path == ActiveProfileEndpoint:
		if i := s.index(s.activeProfileId); i >= 0 {
			writeJSON(w, http.StatusOK, s.profiles[i])
		} else {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "No active profile"})
		}
	case r.Method == http.MethodPost && r.URL.Path == SetActiveEndpoint:
		body := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		id, _ := body["profile_id"].(string)
		if s.index(id) < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Profile not found"})
			return
		}
		s.activeProfileId = id
		writeJSON(w, http.StatusOK, map[string]any{"message": "Active profile updated"})
	case r.Method == http.MethodPost && r.URL.Path == ProfilesEndpoint:
		profile := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
			return
		}
		profile["id"] = uuid.NewString()
		profile["user_id"] = UserId
		profile["created_at"] = "2026-01-02T03:04:05.123456"
		profile["updated_at"] = "2026-01-02T03:04:05.123456"
		s.profiles = append(s.profiles, profile)
		writeJSON(w, http.StatusCreated, profile)
	case strings.HasPrefix(r.URL.Path, ProfilesEndpoint+"/"):
		id := strings.TrimPrefix(r.URL.Path, ProfilesEndpoint+"/")
		i := s.index(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Profile not found"})
			return
		}
		switch r.Method {
		case http.MethodPut:
			update := map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&update)
			for k, v := range update {
				s.profiles[i][k] = v
			}
			writeJSON(w, http.StatusOK, s.profiles[i])
		case http.MethodDelete:
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			if s.activeProfileId == id {
				s.activeProfileId = ""
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *ProfileServer) refresh(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["refresh_token"] != RefreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid refresh token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  s.RefreshedToken,
		"token_type":    "bearer",
		"refresh_token": RefreshToken,
		"expires_in":    3600,
	})
}

func (s *ProfileServer) index(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range s.profiles {
		if p["id"] == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Add("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
