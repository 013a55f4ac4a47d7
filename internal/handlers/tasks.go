package handlers

import (
	"net/http"

	"tasklist/backend/internal/services"
	"tasklist/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type commentInput struct {
	ID       *string `json:"id"`
	AuthorID string  `json:"author_id"`
	Text     string  `json:"text"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	var taskInput struct {
		Title       string         `json:"title" binding:"required"`
		Description string         `json:"description"`
		Status      string         `json:"status"`
		Tags        []string       `json:"tags"`
		Comments    []commentInput `json:"comments"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comments, err := parseComments(taskInput.Comments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		OwnerID:     requester,
		Title:       taskInput.Title,
		Description: taskInput.Description,
		Status:      taskInput.Status,
		Tags:        taskInput.Tags,
		Comments:    comments,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// SearchTasks filters by status, creation day (YYYY-MM-DD) and/or tag; at
// least one criterion is required.
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	filter := store.TaskFilter{
		Status:    c.Query("status"),
		Tag:       c.Query("tag"),
		CreatedOn: c.Query("created"),
	}
	if owner := c.Query("user_id"); owner != "" {
		ownerID, err := uuid.FromString(owner)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		filter.UserID = ownerID
	}
	if filter.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide at least one search criterion"})
		return
	}

	tasks, err := h.taskService.SearchTasks(filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var taskInput struct {
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		Status      *string         `json:"status"`
		Tags        *[]string       `json:"tags"`
		Comments    *[]commentInput `json:"comments"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.TaskUpdate{
		Title:       taskInput.Title,
		Description: taskInput.Description,
		Status:      taskInput.Status,
		Tags:        taskInput.Tags,
	}
	if taskInput.Comments != nil {
		comments, err := parseComments(*taskInput.Comments)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update.Comments = &comments
	}

	task, err := h.taskService.UpdateTask(requester, id, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(requester, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.AddComment(requester, id, input.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ManageTags adds the `new` tag, or replaces `old` with `new` when `old`
// is given.
func (h *TaskHandler) ManageTags(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	newTag := c.Query("new")
	if newTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'new' is required"})
		return
	}

	var err error
	var task interface{}
	if oldTag := c.Query("old"); oldTag != "" {
		task, err = h.taskService.ReplaceTag(requester, id, oldTag, newTag)
	} else {
		task, err = h.taskService.AddTag(requester, id, newTag)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func parseComments(inputs []commentInput) ([]services.CommentInput, error) {
	comments := make([]services.CommentInput, 0, len(inputs))
	for _, in := range inputs {
		authorID, err := uuid.FromString(in.AuthorID)
		if err != nil {
			return nil, err
		}
		comment := services.CommentInput{AuthorID: authorID, Text: in.Text}
		if in.ID != nil {
			commentID, err := uuid.FromString(*in.ID)
			if err != nil {
				return nil, err
			}
			comment.ID = &commentID
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func requesterID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("requester_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "requester identity is required"})
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid requester id"})
		return uuid.Nil, false
	}
	return id, true
}
