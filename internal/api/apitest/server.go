// Package apitest provides an in-memory fake of the school API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theirongolddev/shule/internal/api"
)

// Request records what the fake saw on one call.
type Request struct {
	Method   string
	Path     string
	Query    string
	Token    string
	SchoolID string
}

type failure struct {
	code int
	body string
}

// Server is a fake school API. Zero-value fields mean "accept anything".
type Server struct {
	*httptest.Server

	// Token, when set, is the only bearer token accepted.
	Token string

	mu         sync.Mutex
	status     api.AcademicStatus
	classTotal int
	schools    []api.School
	mine       []api.SchoolMembership
	failures   map[string]failure
	delay      time.Duration
	requests   []Request
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{failures: make(map[string]failure)}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post(api.SchoolsPath, s.handleCreateSchool)
		r.Get(api.MySchoolsPath, s.handleMine)

		r.Group(func(r chi.Router) {
			r.Use(requireSchool)
			r.Get(api.AcademicStatusPath, s.handleStatus)
			r.Get(api.ClassesPath, s.handleClasses)
		})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetStatus replaces the academic status the fake returns.
func (s *Server) SetStatus(status api.AcademicStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetClassTotal sets the class total the fake reports.
func (s *Server) SetClassTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classTotal = n
}

// SetMine sets the memberships returned by /api/schools/mine.
func (s *Server) SetMine(m []api.SchoolMembership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mine = m
}

// SetDelay delays every response by d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Fail makes every request to path answer with code and body until Recover.
func (s *Server) Fail(path string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{code: code, body: body}
}

// Recover clears an injected failure.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// Requests returns the requests seen so far for path ("" for all).
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	return len(s.Requests(path))
}

// Schools returns the schools created so far.
func (s *Server) Schools() []api.School {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.School(nil), s.schools...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			Token:    strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
			SchoolID: r.Header.Get(api.SchoolHeader),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, failing := s.failures[r.URL.Path]
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.code)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if s.Token != "" && parts[1] != s.Token {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireSchool(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(r.Header.Get(api.SchoolHeader)); err != nil {
			writeDetail(w, http.StatusBadRequest, "X-School-ID header required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	s.mu.Lock()
	total := s.classTotal
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"classes": []any{},
		"total":   total,
		"page":    1,
		"limit":   limit,
	})
}

func (s *Server) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSchoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "name"}, "msg": "Field required"}},
		})
		return
	}
	if _, err := time.Parse("2006-01-02", req.AcademicYearStart); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{
				"loc": []string{"body", "academic_year_start"},
				"msg": "academic_year_start must be in YYYY-MM-DD format (e.g., '2024-01-15')",
			}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ShortCode != "" {
		for _, existing := range s.schools {
			if existing.ShortCode == req.ShortCode {
				writeDetail(w, http.StatusConflict, "School with this short code already exists")
				return
			}
		}
	}
	school := api.School{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Address:           req.Address,
		ShortCode:         req.ShortCode,
		Email:             req.Email,
		Phone:             req.Phone,
		Currency:          req.Currency,
		AcademicYearStart: req.AcademicYearStart,
		BoardingType:      req.BoardingType,
		GenderType:        req.GenderType,
	}
	s.schools = append(s.schools, school)
	s.mine = append(s.mine, api.SchoolMembership{ID: school.ID, Name: school.Name, Role: "OWNER"})
	writeJSON(w, http.StatusCreated, school)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	mine := append([]api.SchoolMembership{}, s.mine...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, mine)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
