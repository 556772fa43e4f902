package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"todoList/internal/handlers/dto"
	"todoList/internal/logger"
	"todoList/internal/models/task"
)

const maxBodyBytes = 1 << 20

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

// Mount registers the task routes on r. Static segments win over {id} in chi,
// so /completed and /mark-all-completed never reach the id handlers.
func (s *TaskHandler) Mount(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks) // GET /tasks
		r.Post("/", s.PostTask) // POST /tasks

		r.Patch("/mark-all-completed", s.MarkAllCompleted) // PATCH /tasks/mark-all-completed
		r.Delete("/completed", s.DeleteCompletedTasks)     // DELETE /tasks/completed

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", s.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", s.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})
}

func (s *TaskHandler) Root(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("message", "todo list API is running"))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", "todo-list"),
			toPayload("error", err.Error()))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "todo-list"))
}

// ListTasks treats any completed value other than "true"/"false" as no filter.
func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter := task.Filter{}
	switch r.URL.Query().Get("completed") {
	case "true":
		filter = task.CompletedFilter(true)
	case "false":
		filter = task.CompletedFilter(false)
	}

	tasks, err := s.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	t, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: task fetched",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(t))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts, ok := requestOptions(w, &request, request.Options)
	if !ok {
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.Title, opts...)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts, ok := requestOptions(w, &request, request.Options)
	if !ok {
		return
	}

	if err := s.TaskService.UpdateTask(r.Context(), id, request.Title, opts...); err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "task updated"})
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "task deleted"})
}

func (s *TaskHandler) MarkAllCompleted(w http.ResponseWriter, r *http.Request) {
	count, err := s.TaskService.MarkAllCompleted(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "mark_all_completed")
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{
		Message: fmt.Sprintf("%d tasks marked as completed", count),
		Count:   count,
	})
}

func (s *TaskHandler) DeleteCompletedTasks(w http.ResponseWriter, r *http.Request) {
	count, err := s.TaskService.DeleteAllCompleted(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "delete_completed")
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{
		Message: fmt.Sprintf("%d completed tasks deleted", count),
		Count:   count,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: invalid task id",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid task id: "+idParam)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			responseWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestOptions validates the decoded body and converts it into task options.
func requestOptions(w http.ResponseWriter, request any, build func() ([]task.TaskOption, error)) ([]task.TaskOption, bool) {
	if fields := validateRequest(request); fields != nil {
		logger.Warn("HTTP: validation failed", zap.Any("fields", fields))

		responseWithJSON(w, http.StatusBadRequest,
			toPayload("error", firstMessage(fields)),
			toPayload("fields", fields))
		return nil, false
	}

	opts, err := build()
	if err != nil {
		responseWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return opts, true
}
