package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/api/models"
	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/core"
	"github.com/Annany2002/domain-ledger/internal/importer"
	"github.com/Annany2002/domain-ledger/internal/tasks"
)

// ImportHandler accepts workbook uploads and reports on the import tasks they start.
type ImportHandler struct {
	DB       *sqlx.DB
	Cfg      *config.Config
	Registry *tasks.Registry
}

func NewImportHandler(db *sqlx.DB, cfg *config.Config, registry *tasks.Registry) *ImportHandler {
	return &ImportHandler{
		DB:       db,
		Cfg:      cfg,
		Registry: registry,
	}
}

// Upload handles POST /api/upload. The workbook is parsed synchronously so bad files
// fail the request; storing the rows happens in a background task.
func (h *ImportHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if !errors.As(err, &maxBytesErr) {
			err = fmt.Errorf("%w: a workbook must be sent in the \"file\" field", core.ErrBadRequest)
		}
		customLog.Warnf("Upload rejected: %v", err)
		_ = c.Error(err)
		return
	}

	name := filepath.Base(fileHeader.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		_ = c.Error(fmt.Errorf("%w: only .xlsx workbooks are accepted", core.ErrBadRequest))
		return
	}

	if err := os.MkdirAll(h.Cfg.UploadDir, 0750); err != nil {
		customLog.Errorf("Failed to create upload directory %s: %v", h.Cfg.UploadDir, err)
		_ = c.Error(err)
		return
	}
	dst := filepath.Join(h.Cfg.UploadDir, uuid.New().String()+"-"+name)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		customLog.Errorf("Failed to save upload to %s: %v", dst, err)
		_ = c.Error(err)
		return
	}

	rows, skipped, err := importer.ParseFile(dst)
	if err != nil {
		customLog.Warnf("Workbook %s could not be parsed: %v", name, err)
		if rmErr := os.Remove(dst); rmErr != nil {
			customLog.Warnf("Failed to remove rejected upload %s: %v", dst, rmErr)
		}
		_ = c.Error(err)
		return
	}
	if skipped == nil {
		skipped = []importer.ImportError{}
	}

	taskID := h.Registry.Start("import "+name, len(rows), func(ctx context.Context, report func(error)) error {
		return importer.Store(ctx, h.DB, rows, report)
	})

	customLog.Printf("Upload %s accepted: %d rows queued, %d skipped, task %s", name, len(rows), len(skipped), taskID)
	c.JSON(http.StatusOK, models.UploadResponse{
		Status:  "success",
		Message: "Import started",
		TaskID:  taskID.String(),
		Total:   len(rows),
		Skipped: skipped,
	})
}

// GetTask handles GET /api/task/:task_id.
func (h *ImportHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: malformed task id", core.ErrBadRequest))
		return
	}

	task, err := h.Registry.Get(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var errMsg *string
	if task.Err != "" {
		errMsg = &task.Err
	}
	c.JSON(http.StatusOK, models.TaskResponse{
		Title:    task.Title,
		Total:    task.Total,
		Status:   string(task.Status),
		Progress: task.Processed,
		Failed:   task.Failed,
		ErrMsg:   errMsg,
	})
}
