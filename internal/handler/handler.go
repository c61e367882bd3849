package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/GoArmGo/ProfileApp/internal/core/ports"
	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/GoArmGo/ProfileApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// maxMemory — сколько multipart-данных держать в памяти, остальное уходит во временные файлы.
const maxMemory = 32 << 20

// UserHandler — обработчик HTTP-запросов для учётных записей.
type UserHandler struct {
	users  usecase.UserUseCase
	files  ports.FileStorage
	logger *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, files ports.FileStorage, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  uc,
		files:  files,
		logger: logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithText — ответ простым текстом (так отвечает /login на отказ).
func respondWithText(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := io.WriteString(w, message); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// GetUsers — список пользователей; заголовок email включает фильтр.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var in usecase.ListInput
	if values, ok := r.Header[http.CanonicalHeaderKey("email")]; ok && len(values) > 0 {
		in.Email = &values[0]
	}

	if claims, ok := ClaimsFromContext(r.Context()); ok {
		h.logger.Debug("listing users", "requested_by", claims.Email, "filtered", in.Email != nil)
	}

	users, err := h.users.ListUsers(r.Context(), in)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		respondWithError(w, statusFor(err), "An error occurred while fetching users", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// Registration — создаёт пользователя из multipart-формы с файлом img.
func (h *UserHandler) Registration(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.logger.Warn("failed to parse registration form", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid form data", h.logger)
		return
	}

	img, closeImg, err := formUpload(r, "img")
	if err != nil {
		h.logger.Warn("failed to read uploaded file", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid file upload", h.logger)
		return
	}
	defer closeImg()

	user, err := h.users.Register(r.Context(), usecase.RegisterInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Name:     r.FormValue("name"),
		Surname:  r.FormValue("surname"),
		Birthday: r.FormValue("birthday"),
		Gender:   r.FormValue("gender"),
		Img:      img,
	})
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("failed to register user", "error", err)
			respondWithError(w, code, "An error occurred while creating the user", h.logger)
			return
		}
		h.logger.Warn("registration rejected", "error", err)
		respondWithError(w, code, err.Error(), h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// Login — проверяет пароль и возвращает {token, email}.
// Принимает JSON, urlencoded и multipart тела.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid JSON body", h.logger)
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid form data", h.logger)
			return
		}
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
	}

	res, err := h.users.Login(r.Context(), in)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, res, h.logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithText(w, http.StatusBadRequest, "User not found", h.logger)
	case errors.Is(err, domain.ErrInvalidPassword):
		respondWithText(w, http.StatusBadRequest, "Invalid Password", h.logger)
	case errors.Is(err, domain.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("login failed", "email", in.Email, "error", err)
		respondWithError(w, http.StatusInternalServerError, "An error occurred while logging in", h.logger)
	}
}

// UpdateUsers — частично обновляет профиль по email из формы.
func (h *UserHandler) UpdateUsers(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data", h.logger)
		return
	}

	img, closeImg, err := formUpload(r, "img")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload", h.logger)
		return
	}
	defer closeImg()

	user, err := h.users.Update(r.Context(), usecase.UpdateInput{
		Email:    r.FormValue("email"),
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
		Img:      img,
	})
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, user, h.logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "User not found", h.logger)
	case statusFor(err) == http.StatusBadRequest:
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("failed to update user", "error", err)
		respondWithError(w, http.StatusInternalServerError, "An error occurred while updating the user", h.logger)
	}
}

// LogOut — сервер не хранит сессий, поэтому просто сообщает клиенту.
func (h *UserHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"isAuthenticated": false}, h.logger)
}

// Images — отдаёт сохранённый файл как есть.
func (h *UserHandler) Images(w http.ResponseWriter, r *http.Request) {
	// chi отдаёт параметр из RawPath, если он задан
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := h.files.OpenFile(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to open image", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("failed to stream image", "name", name, "error", err)
	}
}

// Health — проверка живости процесса.
func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "application/json")
}

// parseForm разбирает multipart или urlencoded тело.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formUpload возвращает файл из поля или nil, если поле не передано.
func formUpload(r *http.Request, field string) (*usecase.Upload, func(), error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	upload := &usecase.Upload{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Content:     f,
	}
	return upload, func() { f.Close() }, nil
}
