package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/quizflow/plugin/ai"
	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

// EmbeddingService is the slice of the AI provider note ingestion needs.
type EmbeddingService interface {
	IsConfigured() bool
	Embedding(ctx context.Context, text string, mode ai.EmbeddingMode) ([]float32, error)
}

// CreateQuestionRequest is the admin payload for a new question.
type CreateQuestionRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Text       string `json:"text"`
	Answer     string `json:"answer"`
}

// CreateQuestion adds a question to the bank.
// POST /api/v1/admin/questions
func (s *APIV1Service) CreateQuestion(c echo.Context) error {
	req := &CreateQuestionRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, qerrors.InvalidArgument("malformed question body"))
	}

	difficulty := store.Difficulty(req.Difficulty)
	switch {
	case strings.TrimSpace(req.Topic) == "":
		return errorJSON(c, qerrors.InvalidArgument("topic is required"))
	case strings.TrimSpace(req.Text) == "":
		return errorJSON(c, qerrors.InvalidArgument("text is required"))
	case strings.TrimSpace(req.Answer) == "":
		return errorJSON(c, qerrors.InvalidArgument("answer is required"))
	case !difficulty.IsValid():
		return errorJSON(c, qerrors.InvalidArgument("difficulty must be easy, medium or hard"))
	}

	question, err := s.Store.CreateQuestion(c.Request().Context(), &store.Question{
		Topic:      strings.TrimSpace(req.Topic),
		Difficulty: difficulty,
		Text:       req.Text,
		Answer:     req.Answer,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, question)
}

// ListQuestions returns the full bank, answers included; this is the admin
// view.
// GET /api/v1/admin/questions
func (s *APIV1Service) ListQuestions(c echo.Context) error {
	find := &store.FindQuestion{}
	if raw := c.QueryParam("difficulty"); raw != "" {
		difficulty := store.Difficulty(raw)
		if !difficulty.IsValid() {
			return errorJSON(c, qerrors.InvalidArgument("difficulty must be easy, medium or hard"))
		}
		find.Difficulty = &difficulty
	}

	questions, err := s.Store.ListQuestions(c.Request().Context(), find)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, questions)
}

// DeleteQuestion removes a question from the bank.
// DELETE /api/v1/admin/questions/:id
func (s *APIV1Service) DeleteQuestion(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return errorJSON(c, qerrors.InvalidArgument("invalid question id"))
	}

	if err := s.Store.DeleteQuestion(c.Request().Context(), &store.DeleteQuestion{ID: int32(id)}); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// IngestNoteRequest is the admin payload for a study note.
type IngestNoteRequest struct {
	Title   string `json:"title"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// IngestNoteResponse reports the ingestion outcome.
type IngestNoteResponse struct {
	NoteID         int32 `json:"noteId"`
	ChunkCount     int   `json:"chunkCount"`
	EmbeddedInline int   `json:"embeddedInline"`
}

// IngestNote stores a study note, splits it into chunks, and embeds them
// inline when the AI provider is reachable. Chunks left without an embedding
// are picked up by the background runner.
// POST /api/v1/admin/notes
func (s *APIV1Service) IngestNote(c echo.Context) error {
	req := &IngestNoteRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, qerrors.InvalidArgument("malformed note body"))
	}
	if strings.TrimSpace(req.Topic) == "" {
		return errorJSON(c, qerrors.InvalidArgument("topic is required"))
	}
	chunks := ai.ChunkText(req.Content)
	if len(chunks) == 0 {
		return errorJSON(c, qerrors.InvalidArgument("content is required"))
	}

	ctx := c.Request().Context()
	note, err := s.Store.CreateNote(ctx, &store.Note{
		Title: strings.TrimSpace(req.Title),
		Topic: strings.TrimSpace(req.Topic),
	})
	if err != nil {
		return errorJSON(c, err)
	}

	embedded := 0
	for i, content := range chunks {
		chunk := &store.NoteChunk{
			NoteID:     note.ID,
			ChunkIndex: i,
			Content:    content,
		}
		if s.Embedding != nil && s.Embedding.IsConfigured() {
			vector, err := s.Embedding.Embedding(ctx, content, ai.EmbeddingModeDocument)
			if err != nil {
				slog.Warn("inline chunk embedding failed, deferring to runner",
					"note_id", note.ID, "chunk_index", i, "error", err)
			} else {
				chunk.Embedding = vector
				embedded++
			}
		}
		if _, err := s.Store.CreateNoteChunk(ctx, chunk); err != nil {
			return errorJSON(c, err)
		}
	}

	return c.JSON(http.StatusCreated, &IngestNoteResponse{
		NoteID:         note.ID,
		ChunkCount:     len(chunks),
		EmbeddedInline: embedded,
	})
}
