package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/avolkov/six-cities/internal/auth"
	"github.com/avolkov/six-cities/internal/user"
)

// maxAvatarSize bounds avatar uploads to 3 MiB.
const maxAvatarSize = 3 << 20

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req user.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, err)
		return
	}

	p, err := s.users.Register(r.Context(), req)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, p, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req user.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, err)
		return
	}

	resp, err := s.users.Login(r.Context(), req)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, resp, http.StatusOK)
}

// handleCheck returns the authenticated user's own profile.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	p, err := s.users.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, p, http.StatusOK)
}

// handleAvatarUpload accepts a PNG or JPEG avatar as multipart form
// data and stores it under a fresh random name.
func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		badRequest(w, "avatar must be multipart form data of at most 3 MiB")
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		badRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		apiError(w, fmt.Errorf("reading avatar: %w", err))
		return
	}

	var ext string
	switch http.DetectContentType(head[:n]) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	default:
		badRequest(w, "avatar must be a PNG or JPEG image")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		apiError(w, fmt.Errorf("rewinding avatar: %w", err))
		return
	}

	filename := uuid.NewString() + ext
	if err := s.saveUpload(filename, file); err != nil {
		apiError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if err := s.users.SetAvatar(r.Context(), userID, filename); err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, map[string]string{"avatar": "/uploads/" + filename}, http.StatusCreated)
}

func (s *Server) saveUpload(filename string, src io.Reader) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("writing upload file: %w", err)
	}

	return nil
}
